package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthRequired validates the bearer token and stores the acting player's id
// in the context under "player_id". Requests without a valid token are
// rejected with 401.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := playerIDFromRequest(c, jwtSecret)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":             "unauthorized",
				"error_description": "a valid bearer token is required",
			})
			c.Abort()
			return
		}

		c.Set("player_id", playerID)
		c.Next()
	}
}

// Authenticate populates "player_id" when a valid token is present but lets
// anonymous requests through.
func Authenticate(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if playerID, ok := playerIDFromRequest(c, jwtSecret); ok {
			c.Set("player_id", playerID)
		}
		c.Next()
	}
}

func playerIDFromRequest(c *gin.Context, jwtSecret string) (uint, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return 0, false
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return 0, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	playerID, ok := claims["player_id"].(float64)
	if !ok {
		return 0, false
	}

	return uint(playerID), true
}
