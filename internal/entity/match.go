package entity

import "time"

// Match is one finished two-player game. Winner holds the winning mark,
// "X" or "O", or "-" for a draw.
type Match struct {
	RoomID   string    `json:"room_id"`
	PlayerX  string    `json:"player_x"`
	PlayerO  string    `json:"player_o"`
	Winner   string    `json:"winner"`
	PlayedAt time.Time `json:"date"`
}

// Move is one committed move, stamped with its ordinal within the game.
type Move struct {
	RoomID     string    `json:"room_id"`
	Player     string    `json:"player"`
	Mark       string    `json:"mark"`
	Position   int       `json:"position"`
	TurnNumber int       `json:"turn_number"`
	PlayedAt   time.Time `json:"played_at"`
}
