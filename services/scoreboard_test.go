package services

import (
	"testing"

	"trackstar/models"

	"github.com/stretchr/testify/assert"
)

func boardGame(players []models.GamePlayer, tracks []models.Track) *models.Game {
	return &models.Game{
		ID:      1,
		Players: players,
		Tracks:  tracks,
	}
}

func member(pos int, playerID uint, name string) models.GamePlayer {
	return models.GamePlayer{
		GameID:   1,
		PlayerID: playerID,
		Position: pos,
		Player:   models.Player{ID: playerID, Name: name},
	}
}

func TestComputeScoreboard_SignFlip(t *testing.T) {
	tests := []struct {
		name     string
		played   bool
		value    float64
		expected float64
	}{
		{name: "unplayed track counts negative", played: false, value: 7, expected: -7},
		{name: "played track counts positive", played: true, value: 7, expected: 7},
		{name: "zero score is neutral either way", played: false, value: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := boardGame(
				[]models.GamePlayer{member(0, 2, "beth")},
				[]models.Track{{
					ID:     10,
					GameID: 1,
					Played: tt.played,
					Scores: []models.Score{{TrackID: 10, PlayerID: 2, Value: tt.value}},
				}},
			)

			scoreboard := ComputeScoreboard(game)

			assert.Len(t, scoreboard.Board, 1)
			assert.Equal(t, tt.expected, scoreboard.Board[0].Score)
			assert.Equal(t, 1, scoreboard.Board[0].Position)
		})
	}
}

func TestComputeScoreboard_AggregatesAcrossTracks(t *testing.T) {
	game := boardGame(
		[]models.GamePlayer{
			member(0, 1, "ana"),
			member(1, 2, "beth"),
		},
		[]models.Track{
			{
				ID: 10, GameID: 1, Played: true,
				Scores: []models.Score{
					{TrackID: 10, PlayerID: 1, Value: 4},
					{TrackID: 10, PlayerID: 2, Value: 9},
				},
			},
			{
				ID: 11, GameID: 1, Played: false,
				Scores: []models.Score{
					{TrackID: 11, PlayerID: 1, Value: 3},
					{TrackID: 11, PlayerID: 2, Value: 1},
				},
			},
		},
	)

	scoreboard := ComputeScoreboard(game)

	assert.Equal(t, uint(1), scoreboard.GameID)
	assert.Len(t, scoreboard.Board, 2)

	// beth: +9 -1 = 8, ana: +4 -3 = 1
	assert.Equal(t, "beth", scoreboard.Board[0].Player.Name)
	assert.Equal(t, 8.0, scoreboard.Board[0].Score)
	assert.Equal(t, 1, scoreboard.Board[0].Position)

	assert.Equal(t, "ana", scoreboard.Board[1].Player.Name)
	assert.Equal(t, 1.0, scoreboard.Board[1].Score)
	assert.Equal(t, 2, scoreboard.Board[1].Position)
}

func TestComputeScoreboard_TiesKeepPlayerListOrder(t *testing.T) {
	game := boardGame(
		[]models.GamePlayer{
			member(0, 1, "ana"),
			member(1, 2, "beth"),
			member(2, 3, "cara"),
		},
		[]models.Track{{
			ID: 10, GameID: 1, Played: true,
			Scores: []models.Score{
				{TrackID: 10, PlayerID: 1, Value: 5},
				{TrackID: 10, PlayerID: 2, Value: 5},
				{TrackID: 10, PlayerID: 3, Value: 8},
			},
		}},
	)

	scoreboard := ComputeScoreboard(game)

	assert.Equal(t, "cara", scoreboard.Board[0].Player.Name)
	assert.Equal(t, "ana", scoreboard.Board[1].Player.Name)
	assert.Equal(t, "beth", scoreboard.Board[2].Player.Name)
	assert.Equal(t, []int{1, 2, 3}, []int{
		scoreboard.Board[0].Position,
		scoreboard.Board[1].Position,
		scoreboard.Board[2].Position,
	})
}

func TestComputeScoreboard_DuplicateMembershipDoubleCounts(t *testing.T) {
	// Rejoining appends a second membership entry; the board then lists the
	// player twice, each entry counting their scores in full.
	game := boardGame(
		[]models.GamePlayer{
			member(0, 1, "ana"),
			member(1, 1, "ana"),
		},
		[]models.Track{{
			ID: 10, GameID: 1, Played: true,
			Scores: []models.Score{{TrackID: 10, PlayerID: 1, Value: 6}},
		}},
	)

	scoreboard := ComputeScoreboard(game)

	assert.Len(t, scoreboard.Board, 2)
	assert.Equal(t, 6.0, scoreboard.Board[0].Score)
	assert.Equal(t, 6.0, scoreboard.Board[1].Score)
}

func TestComputeScoreboard_NoTracks(t *testing.T) {
	game := boardGame(
		[]models.GamePlayer{
			member(0, 1, "ana"),
			member(1, 2, "beth"),
		},
		nil,
	)

	scoreboard := ComputeScoreboard(game)

	assert.Len(t, scoreboard.Board, 2)
	for i, entry := range scoreboard.Board {
		assert.Equal(t, 0.0, entry.Score)
		assert.Equal(t, i+1, entry.Position)
	}
	assert.Equal(t, "ana", scoreboard.Board[0].Player.Name)
	assert.Equal(t, "beth", scoreboard.Board[1].Player.Name)
}

func TestComputeScoreboard_Deterministic(t *testing.T) {
	game := boardGame(
		[]models.GamePlayer{
			member(0, 1, "ana"),
			member(1, 2, "beth"),
			member(2, 3, "cara"),
		},
		[]models.Track{
			{
				ID: 10, GameID: 1, Played: true,
				Scores: []models.Score{
					{TrackID: 10, PlayerID: 1, Value: 2},
					{TrackID: 10, PlayerID: 2, Value: 2},
				},
			},
			{
				ID: 11, GameID: 1, Played: false,
				Scores: []models.Score{
					{TrackID: 11, PlayerID: 3, Value: 4},
				},
			},
		},
	)

	first := ComputeScoreboard(game)
	second := ComputeScoreboard(game)

	assert.Equal(t, first, second)
}
