package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/agomezg1822/triki-backend/internal/entity"
)

var ErrPlayerNotFound = errors.New("player not found")

const leaderboardKey = "leaderboard"

type PlayerRepository interface {
	CreateOrUpdate(ctx context.Context, stats *entity.PlayerStats) error
	GetByName(ctx context.Context, name string) (*entity.PlayerStats, error)
	Leaderboard(ctx context.Context) ([]entity.PlayerStats, error)
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

func (that *dbPlayer) CreateOrUpdate(ctx context.Context, stats *entity.PlayerStats) error {
	stats.Rescore()

	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal player stats: %w", err)
	}

	playerKey := "player:" + stats.Name
	if err = that.client.Set(ctx, playerKey, statsJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set player stats: %w", err)
	}

	member := redis.Z{Score: float64(stats.Score), Member: stats.Name}
	if err = that.client.ZAdd(ctx, leaderboardKey, member).Err(); err != nil {
		return fmt.Errorf("failed to update leaderboard: %w", err)
	}

	return nil
}

func (that *dbPlayer) GetByName(ctx context.Context, name string) (*entity.PlayerStats, error) {
	playerKey := "player:" + name

	response, err := that.client.Get(ctx, playerKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player stats by name: %w", err)
	}

	var stats entity.PlayerStats
	if err = json.Unmarshal([]byte(response), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player stats: %w", err)
	}

	return &stats, nil
}

// Leaderboard - returns every player's stats ordered best first.
func (that *dbPlayer) Leaderboard(ctx context.Context) ([]entity.PlayerStats, error) {
	names, err := that.client.ZRevRange(ctx, leaderboardKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	board := make([]entity.PlayerStats, 0, len(names))
	for _, name := range names {
		stats, err := that.GetByName(ctx, name)
		if errors.Is(err, ErrPlayerNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get leaderboard entry: %w", err)
		}

		board = append(board, *stats)
	}

	return board, nil
}
