package game

import (
	"fmt"

	"github.com/agomezg1822/triki-backend/internal/apperror"
)

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

const (
	ResultValidMove = "valid move"
	ResultDraw      = "draw"
)

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Game is the pure state of one match: no I/O, no locking.
// The owning room serializes access to it.
type Game struct {
	Board  [9]string
	Turn   string
	Winner string
	Status string
	Moves  int
}

func New() *Game {
	return &Game{
		Board:  [9]string{},
		Turn:   PlayerX,
		Winner: "",
		Status: StatusOngoing,
		Moves:  0,
	}
}

// Reset re-initializes the board in place.
func (that *Game) Reset() {
	that.Board = [9]string{}
	that.Turn = PlayerX
	that.Winner = ""
	that.Status = StatusOngoing
	that.Moves = 0
}

// MakeMove - marks cell with the given mark and returns a human-readable
// result description. On a winning or drawing move the turn does not advance.
func (that *Game) MakeMove(mark string, cell int) (string, error) {
	if that.Status == StatusFinished {
		return "", apperror.ErrGameFinished
	}

	// the turn is checked before the cell so an out-of-turn submission is
	// reported as such regardless of which cell it names.
	if that.Turn != mark {
		return "", apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= len(that.Board) {
		return "", apperror.ErrInvalidCell
	}

	if that.Board[cell] != EmptyCell {
		return "", apperror.ErrCellOccupied
	}

	that.Board[cell] = mark
	that.Moves++

	switch winner := checkBoard(that.Board); winner {
	case PlayerX, PlayerO:
		that.Winner = winner
		that.Status = StatusFinished

		return fmt.Sprintf("%s wins", winner), nil
	case PlayerTie:
		that.Winner = PlayerTie
		that.Status = StatusFinished

		return ResultDraw, nil
	default:
		that.Turn = toggleMark(mark)

		return ResultValidMove, nil
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func toggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func checkBoard(board [9]string) string {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	for _, cell := range board {
		if cell == EmptyCell {
			return ""
		}
	}

	return PlayerTie
}
