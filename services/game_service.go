package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"trackstar/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrTrackNotFound  = errors.New("track not found")
	ErrPlayerNotFound = errors.New("player not found")
)

// scoreboardTTL bounds staleness if an invalidation is ever missed.
const scoreboardTTL = 5 * time.Minute

type GameService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewGameService(db *gorm.DB, redis *redis.Client) *GameService {
	return &GameService{
		db:    db,
		redis: redis,
	}
}

type CreateGameRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

type AddTrackRequest struct {
	Name    string   `json:"name"`
	Artists []string `json:"artists"`
}

type SubmitScoreRequest struct {
	Score *float64 `json:"score"`
}

type SetPlayedRequest struct {
	Played *bool `json:"played"`
}

func (s *GameService) CreateGame(playerID uint, req *CreateGameRequest) (*models.Game, error) {
	var creator models.Player
	if err := s.db.First(&creator, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	game := models.Game{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Players: []models.GamePlayer{
			{PlayerID: playerID, Position: 0},
		},
	}

	if err := game.Validate(); err != nil {
		return nil, err
	}

	// Start transaction
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&game).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetGame(game.ID)
}

func (s *GameService) ListGames() ([]models.Game, error) {
	var games []models.Game
	err := s.db.
		Preload("Players", func(db *gorm.DB) *gorm.DB {
			return db.Order("game_players.position")
		}).
		Preload("Players.Player").
		Preload("Tracks").
		Preload("Tracks.Scores").
		Preload("Tracks.Scores.Player").
		Order("created_at DESC").
		Find(&games).Error
	return games, err
}

// GetGame loads a game with its player list, tracks and score players
// resolved, in player-list order.
func (s *GameService) GetGame(gameID uint) (*models.Game, error) {
	var game models.Game
	err := s.db.
		Preload("Players", func(db *gorm.DB) *gorm.DB {
			return db.Order("game_players.position")
		}).
		Preload("Players.Player").
		Preload("Tracks").
		Preload("Tracks.Scores").
		Preload("Tracks.Scores.Player").
		First(&game, gameID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

// JoinGame appends the player to the game's player list. Rejoining is not
// deduplicated: a second join adds a second membership entry, and the
// scoreboard will list that player twice.
func (s *GameService) JoinGame(gameID, playerID uint) (*models.Game, error) {
	var game models.Game
	if err := s.db.Preload("Players").First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	var player models.Player
	if err := s.db.First(&player, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	membership := models.GamePlayer{
		GameID:   game.ID,
		PlayerID: playerID,
		Position: len(game.Players),
	}

	game.Players = append(game.Players, membership)
	if err := game.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.Create(&membership).Error; err != nil {
		return nil, err
	}

	s.invalidateScoreboard(game.ID)

	return &game, nil
}

func (s *GameService) AddTrack(gameID uint, req *AddTrackRequest) (*models.Track, error) {
	var game models.Game
	if err := s.db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	track := models.Track{
		GameID:  game.ID,
		Name:    req.Name,
		Artists: datatypes.NewJSONSlice(req.Artists),
		Played:  false,
	}

	if err := track.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.Create(&track).Error; err != nil {
		return nil, err
	}

	s.invalidateScoreboard(game.ID)

	return &track, nil
}

// SubmitScore records one player's rating for a track of the game. The value
// feeds the scoreboard negatively until the track is marked played.
func (s *GameService) SubmitScore(gameID, trackID, playerID uint, value float64) (*models.Score, error) {
	track, err := s.findTrack(gameID, trackID)
	if err != nil {
		return nil, err
	}

	score := models.Score{
		TrackID:  track.ID,
		PlayerID: playerID,
		Value:    value,
	}

	if err := score.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.Create(&score).Error; err != nil {
		return nil, err
	}

	s.invalidateScoreboard(gameID)

	return &score, nil
}

// SetPlayed sets the track's played flag to the given value, or toggles the
// current value when none is supplied. The toggle runs in SQL so concurrent
// requests cannot lose each other's flips.
func (s *GameService) SetPlayed(gameID, trackID uint, played *bool) (*models.Track, error) {
	track, err := s.findTrack(gameID, trackID)
	if err != nil {
		return nil, err
	}

	update := s.db.Model(track)
	if played != nil {
		err = update.Update("played", *played).Error
	} else {
		err = update.Update("played", gorm.Expr("NOT played")).Error
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.First(track, track.ID).Error; err != nil {
		return nil, err
	}

	s.invalidateScoreboard(gameID)

	return track, nil
}

// GetScoreboard returns the ranked board for the game, serving a cached copy
// when Redis has one.
func (s *GameService) GetScoreboard(gameID uint) (*Scoreboard, error) {
	if scoreboard := s.cachedScoreboard(gameID); scoreboard != nil {
		return scoreboard, nil
	}

	game, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}

	scoreboard := ComputeScoreboard(game)
	if err := s.cacheScoreboard(scoreboard); err != nil {
		log.Printf("Failed to cache scoreboard for game %d: %v", gameID, err)
	}

	return scoreboard, nil
}

// GetPlayerByID retrieves a player by their ID
func (s *GameService) GetPlayerByID(playerID uint) (*models.Player, error) {
	var player models.Player
	if err := s.db.First(&player, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

// findTrack resolves a track inside a game. A track id that does not belong
// to the game is reported as not found, never dereferenced.
func (s *GameService) findTrack(gameID, trackID uint) (*models.Track, error) {
	var game models.Game
	if err := s.db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	var track models.Track
	if err := s.db.Where("game_id = ?", gameID).First(&track, trackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, err
	}

	return &track, nil
}

func scoreboardKey(gameID uint) string {
	return fmt.Sprintf("scoreboard:%d", gameID)
}

func (s *GameService) cacheScoreboard(scoreboard *Scoreboard) error {
	if s.redis == nil {
		return nil
	}

	data, err := json.Marshal(scoreboard)
	if err != nil {
		return fmt.Errorf("failed to marshal scoreboard: %v", err)
	}

	err = s.redis.Set(context.Background(), scoreboardKey(scoreboard.GameID), data, scoreboardTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to store in Redis: %v", err)
	}

	return nil
}

func (s *GameService) cachedScoreboard(gameID uint) *Scoreboard {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(context.Background(), scoreboardKey(gameID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting scoreboard for game %d: %v", gameID, err)
		}
		return nil
	}

	var scoreboard Scoreboard
	if err := json.Unmarshal([]byte(data), &scoreboard); err != nil {
		log.Printf("Failed to unmarshal cached scoreboard for game %d: %v", gameID, err)
		return nil
	}

	return &scoreboard
}

func (s *GameService) invalidateScoreboard(gameID uint) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(context.Background(), scoreboardKey(gameID)).Err(); err != nil {
		log.Printf("Failed to invalidate scoreboard cache for game %d: %v", gameID, err)
	}
}
