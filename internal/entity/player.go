package entity

const (
	pointsPerWin  = 3
	pointsPerDraw = 1
)

// PlayerStats is a player's lifetime record, keyed by display name.
type PlayerStats struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
	Score  int    `json:"score"`
}

// Rescore recomputes the score: 3 points per win, 1 per draw, 0 per loss.
func (that *PlayerStats) Rescore() {
	that.Score = that.Wins*pointsPerWin + that.Draws*pointsPerDraw
}
