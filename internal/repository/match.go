package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agomezg1822/triki-backend/internal/entity"
)

type MatchRepository interface {
	Save(ctx context.Context, match *entity.Match) error
	All(ctx context.Context) ([]entity.Match, error)
}

type dbMatch struct {
	conn *sql.DB
}

func NewMatchRepository(conn *sql.DB) MatchRepository {
	return &dbMatch{
		conn: conn,
	}
}

func (that *dbMatch) Save(ctx context.Context, match *entity.Match) error {
	query := `INSERT INTO matches (room_id, player_x, player_o, winner, played_at) VALUES (?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query, match.RoomID, match.PlayerX, match.PlayerO, match.Winner, match.PlayedAt)
	if err != nil {
		return fmt.Errorf("can't save match: %w", err)
	}

	return nil
}

func (that *dbMatch) All(ctx context.Context) ([]entity.Match, error) {
	query := `SELECT room_id, player_x, player_o, winner, played_at FROM matches ORDER BY played_at DESC`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("can't query matches: %w", err)
	}
	defer rows.Close()

	var matches []entity.Match
	for rows.Next() {
		var match entity.Match
		if err = rows.Scan(&match.RoomID, &match.PlayerX, &match.PlayerO, &match.Winner, &match.PlayedAt); err != nil {
			return nil, fmt.Errorf("can't scan match: %w", err)
		}
		matches = append(matches, match)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read matches: %w", err)
	}

	return matches, nil
}
