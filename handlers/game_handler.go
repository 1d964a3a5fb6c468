package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"trackstar/models"
	"trackstar/services"

	"github.com/gin-gonic/gin"
)

// GameService is the slice of the game service the handlers orchestrate.
type GameService interface {
	CreateGame(playerID uint, req *services.CreateGameRequest) (*models.Game, error)
	ListGames() ([]models.Game, error)
	GetGame(gameID uint) (*models.Game, error)
	JoinGame(gameID, playerID uint) (*models.Game, error)
	AddTrack(gameID uint, req *services.AddTrackRequest) (*models.Track, error)
	SubmitScore(gameID, trackID, playerID uint, value float64) (*models.Score, error)
	SetPlayed(gameID, trackID uint, played *bool) (*models.Track, error)
	GetScoreboard(gameID uint) (*services.Scoreboard, error)
}

type GameHandler struct {
	gameService GameService
	hub         *services.Hub
}

func NewGameHandler(gameService GameService, hub *services.Hub) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		hub:         hub,
	}
}

func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.gameService.ListGames()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	game, err := h.gameService.GetGame(gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": game})
}

func (h *GameHandler) GetScoreboard(c *gin.Context) {
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	scoreboard, err := h.gameService.GetScoreboard(gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scoreboard": scoreboard})
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	playerID, ok := actingPlayer(c)
	if !ok {
		return
	}

	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorBody(codeInvalidRequest, err.Error()))
		return
	}

	game, err := h.gameService.CreateGame(playerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": game.ID})
}

func (h *GameHandler) JoinGame(c *gin.Context) {
	playerID, ok := actingPlayer(c)
	if !ok {
		return
	}

	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	game, err := h.gameService.JoinGame(gameID, playerID)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastToGame(game.ID, "player_update", gin.H{
			"action":    "joined",
			"player_id": playerID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"id": game.ID})
}

func (h *GameHandler) AddTrack(c *gin.Context) {
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	var req services.AddTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(codeInvalidRequest, err.Error()))
		return
	}

	track, err := h.gameService.AddTrack(gameID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastToGame(gameID, "track_update", gin.H{
			"action": "added",
			"track":  track,
		})
	}

	c.JSON(http.StatusOK, gin.H{"id": track.ID})
}

func (h *GameHandler) SubmitScore(c *gin.Context) {
	playerID, ok := actingPlayer(c)
	if !ok {
		return
	}

	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	trackID, ok := pathID(c, "trackId")
	if !ok {
		return
	}

	var req services.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorBody(codeInvalidRequest, err.Error()))
		return
	}

	if req.Score == nil {
		c.JSON(http.StatusBadRequest, errorBody(codeInvalidRequest, "score is required"))
		return
	}

	score, err := h.gameService.SubmitScore(gameID, trackID, playerID, *req.Score)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcastScoreboard(gameID)

	c.JSON(http.StatusOK, gin.H{"id": score.ID})
}

func (h *GameHandler) SetPlayed(c *gin.Context) {
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	trackID, ok := pathID(c, "trackId")
	if !ok {
		return
	}

	// The body is optional: an explicit value sets the flag, no body toggles it.
	var req services.SetPlayedRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorBody(codeInvalidRequest, err.Error()))
		return
	}

	track, err := h.gameService.SetPlayed(gameID, trackID, req.Played)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastToGame(gameID, "track_update", gin.H{
			"action": "played_changed",
			"track":  track,
		})
	}
	h.broadcastScoreboard(gameID)

	c.JSON(http.StatusOK, gin.H{"id": track.ID})
}

func (h *GameHandler) broadcastScoreboard(gameID uint) {
	if h.hub == nil {
		return
	}

	scoreboard, err := h.gameService.GetScoreboard(gameID)
	if err != nil {
		return
	}

	h.hub.BroadcastScoreboard(gameID, scoreboard)
}

func actingPlayer(c *gin.Context) (uint, bool) {
	playerID, exists := c.Get("player_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":             "unauthorized",
			"error_description": "player not authenticated",
		})
		return 0, false
	}
	return playerID.(uint), true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(codeInvalidRequest, "invalid "+name))
		return 0, false
	}
	return uint(id), true
}
