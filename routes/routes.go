package routes

import (
	"log"
	"net/http"
	"strconv"

	"trackstar/handlers"
	"trackstar/middleware"
	"trackstar/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	gameHandler *handlers.GameHandler,
	hub *services.Hub,
	gameService *services.GameService,
	jwtSecret string,
) {
	// Auth routes (public)
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/profile", middleware.AuthRequired(jwtSecret), authHandler.GetProfile)
	}

	// Game routes
	games := router.Group("/games")
	{
		// Public reads
		games.GET("", gameHandler.ListGames)
		games.GET("/:gameId", gameHandler.GetGame)
		games.GET("/:gameId/scoreboard", gameHandler.GetScoreboard)

		// Public mutations
		games.POST("/:gameId/tracks", gameHandler.AddTrack)
		games.PUT("/:gameId/tracks/:trackId/played", gameHandler.SetPlayed)

		// Mutations requiring the acting player's identity
		games.POST("", middleware.AuthRequired(jwtSecret), gameHandler.CreateGame)
		games.PUT("/:gameId/join", middleware.AuthRequired(jwtSecret), gameHandler.JoinGame)
		games.PUT("/:gameId/tracks/:trackId/score", middleware.AuthRequired(jwtSecret), gameHandler.SubmitScore)
	}

	// WebSocket endpoint for live scoreboard updates
	router.GET("/ws/:gameId", func(c *gin.Context) {
		gameID, err := strconv.ParseUint(c.Param("gameId"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "invalid_request",
				"error_description": "invalid gameId",
			})
			return
		}

		// The game must exist before we hold a socket open for it.
		if _, err := gameService.GetGame(uint(gameID)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error":             "not_found",
				"error_description": "game not found",
			})
			return
		}

		// Spectators are welcome: identity is optional on the socket.
		var playerID uint
		playerName := c.Query("playerName")
		if idStr := c.Query("playerId"); idStr != "" {
			id, err := strconv.ParseUint(idStr, 10, 32)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":             "invalid_request",
					"error_description": "invalid playerId",
				})
				return
			}
			playerID = uint(id)

			if playerName == "" {
				if player, err := gameService.GetPlayerByID(playerID); err == nil {
					playerName = player.Name
				}
			}
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for game %d, player %d: %v", gameID, playerID, err)
			return
		}

		log.Printf("WebSocket connection established for game %d, player %d (%s)", gameID, playerID, playerName)

		hub.RegisterClient(conn, uint(gameID), playerID, playerName)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
