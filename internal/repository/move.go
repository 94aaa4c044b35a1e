package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agomezg1822/triki-backend/internal/entity"
)

type MoveRepository interface {
	Save(ctx context.Context, move *entity.Move) error
	ByRoom(ctx context.Context, roomID string) ([]entity.Move, error)
}

type dbMove struct {
	conn *sql.DB
}

func NewMoveRepository(conn *sql.DB) MoveRepository {
	return &dbMove{
		conn: conn,
	}
}

func (that *dbMove) Save(ctx context.Context, move *entity.Move) error {
	query := `INSERT INTO moves (room_id, player, mark, position, turn_number, played_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query, move.RoomID, move.Player, move.Mark, move.Position, move.TurnNumber, move.PlayedAt)
	if err != nil {
		return fmt.Errorf("can't save move: %w", err)
	}

	return nil
}

func (that *dbMove) ByRoom(ctx context.Context, roomID string) ([]entity.Move, error) {
	query := `SELECT room_id, player, mark, position, turn_number, played_at FROM moves WHERE room_id = ? ORDER BY turn_number`

	rows, err := that.conn.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("can't query moves: %w", err)
	}
	defer rows.Close()

	var moves []entity.Move
	for rows.Next() {
		var move entity.Move
		if err = rows.Scan(&move.RoomID, &move.Player, &move.Mark, &move.Position, &move.TurnNumber, &move.PlayedAt); err != nil {
			return nil, fmt.Errorf("can't scan move: %w", err)
		}
		moves = append(moves, move)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read moves: %w", err)
	}

	return moves, nil
}
