package websocket

import (
	"encoding/json"

	"github.com/agomezg1822/triki-backend/internal/room"
)

const (
	actionJoin  = "join"
	actionMove  = "move"
	actionReset = "reset"
)

const (
	typeInfo       = "info"
	typeState      = "state"
	typeMoveResult = "move_result"
	typeError      = "error"
)

// Message is an inbound client message. Position is a pointer so a move
// without one can be told apart from a move to cell 0.
type Message struct {
	Action   string `json:"action"`
	Name     string `json:"name,omitempty"`
	Position *int   `json:"position,omitempty"`
}

type infoResponse struct {
	Type    string  `json:"type"`
	Message string  `json:"message"`
	Symbol  *string `json:"symbol"`
}

type stateResponse struct {
	Type   string    `json:"type"`
	Board  [9]string `json:"board"`
	Turn   string    `json:"turn"`
	Winner *string   `json:"winner"`
}

type moveResultResponse struct {
	Type    string    `json:"type"`
	Board   [9]string `json:"board"`
	Turn    string    `json:"turn"`
	Winner  *string   `json:"winner"`
	Message string    `json:"message"`
	By      string    `json:"by"`
	Symbol  string    `json:"symbol"`
}

type errorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newInfoPayload(message, mark string) []byte {
	return mustMarshal(infoResponse{
		Type:    typeInfo,
		Message: message,
		Symbol:  nullable(mark),
	})
}

func newStatePayload(snap room.Snapshot) []byte {
	return mustMarshal(stateResponse{
		Type:   typeState,
		Board:  snap.Board,
		Turn:   snap.Turn,
		Winner: nullable(snap.Winner),
	})
}

func newMoveResultPayload(snap room.Snapshot, message, by, mark string) []byte {
	return mustMarshal(moveResultResponse{
		Type:    typeMoveResult,
		Board:   snap.Board,
		Turn:    snap.Turn,
		Winner:  nullable(snap.Winner),
		Message: message,
		By:      by,
		Symbol:  mark,
	})
}

func newErrorPayload(message string) []byte {
	return mustMarshal(errorResponse{
		Type:    typeError,
		Message: message,
	})
}

// nullable maps an empty mark or winner to JSON null.
func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
