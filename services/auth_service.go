package services

import (
	"errors"
	"time"

	"trackstar/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid name or password")

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token  string        `json:"token"`
	Player models.Player `json:"player"`
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	var existing models.Player
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, errors.New("player name already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	player := models.Player{
		Name:     req.Name,
		Password: string(hash),
	}

	if err := s.db.Create(&player).Error; err != nil {
		return nil, err
	}

	token, err := s.generateToken(player.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, Player: player}, nil
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	var player models.Player
	if err := s.db.Where("name = ?", req.Name).First(&player).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(player.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, Player: player}, nil
}

func (s *AuthService) GetProfile(playerID uint) (*models.Player, error) {
	var player models.Player
	if err := s.db.First(&player, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

func (s *AuthService) generateToken(playerID uint) (string, error) {
	claims := jwt.MapClaims{
		"player_id": playerID,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
