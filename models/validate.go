package models

import (
	"fmt"
	"strings"
)

// FieldViolation is a single broken rule on a named field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every violated rule of one record so handlers can
// answer with one error entry per field.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the game invariants. A game must always hold at least one
// player reference.
func (g *Game) Validate() error {
	var violations []FieldViolation
	if len(g.Players) < 1 {
		violations = append(violations, FieldViolation{
			Field:   "players",
			Message: "a game requires at least one player",
		})
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// Validate checks the track invariants: a non-empty name and at least one
// artist.
func (t *Track) Validate() error {
	var violations []FieldViolation
	if strings.TrimSpace(t.Name) == "" {
		violations = append(violations, FieldViolation{
			Field:   "name",
			Message: "a track requires a name",
		})
	}
	if len(t.Artists) < 1 {
		violations = append(violations, FieldViolation{
			Field:   "artists",
			Message: "a track requires at least one artist",
		})
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// Validate checks the score invariants: a player reference and a value inside
// the closed interval [0, 10].
func (s *Score) Validate() error {
	var violations []FieldViolation
	if s.PlayerID == 0 {
		violations = append(violations, FieldViolation{
			Field:   "player",
			Message: "a score requires a player",
		})
	}
	if s.Value < 0 || s.Value > 10 {
		violations = append(violations, FieldViolation{
			Field:   "score",
			Message: "score must be between 0 and 10",
		})
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
