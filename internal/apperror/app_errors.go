package apperror

import "errors"

var (
	ErrGameFinished  = errors.New("game is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrInvalidCell   = errors.New("invalid cell index")
	ErrNotAPlayer    = errors.New("spectators can't make moves")
	ErrAlreadyJoined = errors.New("already joined this room")
)
