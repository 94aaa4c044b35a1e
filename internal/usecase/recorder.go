package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agomezg1822/triki-backend/internal/entity"
	"github.com/agomezg1822/triki-backend/internal/game"
	"github.com/agomezg1822/triki-backend/internal/repository"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, stats *entity.PlayerStats) error
	GetByName(ctx context.Context, name string) (*entity.PlayerStats, error)
}

type matchRepo interface {
	Save(ctx context.Context, match *entity.Match) error
}

type moveRepo interface {
	Save(ctx context.Context, move *entity.Move) error
}

// Recorder persists the move log, finished matches and player statistics.
// It runs off the room guard; failures here never reach gameplay.
type Recorder struct {
	logger     *slog.Logger
	playerRepo playerRepo
	matchRepo  matchRepo
	moveRepo   moveRepo
}

func NewRecorder(logger *slog.Logger, playerRepo playerRepo, matchRepo matchRepo, moveRepo moveRepo) *Recorder {
	return &Recorder{
		logger: logger,

		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		moveRepo:   moveRepo,
	}
}

// RecordMove - appends one committed move to the history log.
func (that *Recorder) RecordMove(ctx context.Context, move entity.Move) error {
	if move.PlayedAt.IsZero() {
		move.PlayedAt = time.Now().UTC()
	}

	if err := that.moveRepo.Save(ctx, &move); err != nil {
		return fmt.Errorf("failed to save move: %w", err)
	}

	return nil
}

// RecordResult - stores a decided match and updates both players' stats.
// Games that never had two named players are not recorded.
func (that *Recorder) RecordResult(ctx context.Context, match entity.Match) error {
	log := that.logger.With("method", "RecordResult")

	if match.PlayerX == "" || match.PlayerO == "" {
		log.Info("skipping result for incomplete game", "roomID", match.RoomID)
		return nil
	}

	if match.PlayedAt.IsZero() {
		match.PlayedAt = time.Now().UTC()
	}

	if err := that.matchRepo.Save(ctx, &match); err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	statsX, err := that.getOrCreateStats(ctx, match.PlayerX)
	if err != nil {
		return fmt.Errorf("failed to get stats for %s: %w", match.PlayerX, err)
	}

	statsO, err := that.getOrCreateStats(ctx, match.PlayerO)
	if err != nil {
		return fmt.Errorf("failed to get stats for %s: %w", match.PlayerO, err)
	}

	switch match.Winner {
	case game.PlayerX:
		statsX.Wins++
		statsO.Losses++
	case game.PlayerO:
		statsO.Wins++
		statsX.Losses++
	case game.PlayerTie:
		statsX.Draws++
		statsO.Draws++
	default:
		return fmt.Errorf("unknown match winner %q", match.Winner)
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, statsX); err != nil {
		return fmt.Errorf("failed to update stats for %s: %w", statsX.Name, err)
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, statsO); err != nil {
		return fmt.Errorf("failed to update stats for %s: %w", statsO.Name, err)
	}

	log.Info("match recorded", "roomID", match.RoomID, "winner", match.Winner)

	return nil
}

func (that *Recorder) getOrCreateStats(ctx context.Context, name string) (*entity.PlayerStats, error) {
	stats, err := that.playerRepo.GetByName(ctx, name)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return &entity.PlayerStats{Name: name}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}

	return stats, nil
}
