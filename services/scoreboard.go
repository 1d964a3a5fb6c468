package services

import (
	"sort"

	"trackstar/models"
)

type Scoreboard struct {
	GameID uint              `json:"game_id"`
	Board  []ScoreboardEntry `json:"board"`
}

type ScoreboardEntry struct {
	Player   models.Player `json:"player"`
	Score    float64       `json:"score"`
	Position int           `json:"position"`
}

// ComputeScoreboard aggregates every player's scores across the game's
// tracks into a ranked board. A score counts against the player while its
// track is still a guess (played=false) and flips positive once the track is
// marked played. The game must be loaded with memberships, players, tracks
// and scores resolved.
//
// Ties keep the order of the game's player list (stable sort), so the same
// game always yields the same board. A player holding two membership entries
// appears twice and has their scores counted for each entry.
func ComputeScoreboard(game *models.Game) *Scoreboard {
	board := make([]ScoreboardEntry, 0, len(game.Players))

	for _, membership := range game.Players {
		total := 0.0
		for _, track := range game.Tracks {
			for _, score := range track.Scores {
				if score.PlayerID != membership.PlayerID {
					continue
				}
				if track.Played {
					total += score.Value
				} else {
					total -= score.Value
				}
			}
		}
		board = append(board, ScoreboardEntry{
			Player: membership.Player,
			Score:  total,
		})
	}

	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Score > board[j].Score
	})

	for i := range board {
		board[i].Position = i + 1
	}

	return &Scoreboard{
		GameID: game.ID,
		Board:  board,
	}
}
