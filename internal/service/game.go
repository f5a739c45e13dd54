package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pokeru-app/backend/internal/logging"
	"github.com/pokeru-app/backend/internal/models"
	"github.com/pokeru-app/backend/internal/repo"
	"github.com/pokeru-app/backend/internal/search"
	"github.com/pokeru-app/backend/internal/transport"
)

var ErrInvalidGameTime = errors.New("game_time must be formatted as YYYY-MM-DD HH:MM")

const gameTimeLayout = "2006-01-02 15:04"

type GameService struct {
	Repo  *repo.GormRepo
	Index *search.Index
}

func (s *GameService) index(ctx context.Context, game *models.Game) {
	if err := s.Index.IndexGame(ctx, game); err != nil {
		logging.FromContext(ctx).Error("game indexing failed", "uid", game.UID, "error", err)
	}
}

func (s *GameService) ListGames(ctx context.Context) ([]models.Game, error) {
	return s.Repo.ListGames(ctx)
}

func (s *GameService) GetGame(ctx context.Context, uid uuid.UUID) (*models.Game, error) {
	return s.Repo.GetGame(ctx, uid)
}

func (s *GameService) CreateGame(ctx context.Context, req transport.GameCreateRequest) (*models.Game, error) {
	gameTime, err := time.Parse(gameTimeLayout, req.GameTime)
	if err != nil {
		return nil, ErrInvalidGameTime
	}

	game := &models.Game{
		Title:    req.Title,
		GameTime: gameTime,
		Location: req.Location,
		BuyIn:    req.BuyIn,
		Host:     req.Host,
	}
	if err := s.Repo.CreateGame(ctx, game); err != nil {
		return nil, err
	}

	s.index(ctx, game)
	return game, nil
}

func (s *GameService) UpdateGame(ctx context.Context, uid uuid.UUID, req transport.GameUpdateRequest) (*models.Game, error) {
	game, err := s.Repo.GetGame(ctx, uid)
	if err != nil {
		return nil, err
	}

	gameTime, err := time.Parse(gameTimeLayout, req.GameTime)
	if err != nil {
		return nil, ErrInvalidGameTime
	}

	game.Title = req.Title
	game.GameTime = gameTime
	game.Location = req.Location
	game.BuyIn = req.BuyIn
	if err := s.Repo.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	s.index(ctx, game)
	return game, nil
}

func (s *GameService) DeleteGame(ctx context.Context, uid uuid.UUID) error {
	game, err := s.Repo.GetGame(ctx, uid)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteGame(ctx, game); err != nil {
		return err
	}

	if err := s.Index.DeleteGame(ctx, uid.String()); err != nil {
		logging.FromContext(ctx).Error("game unindexing failed", "uid", uid, "error", err)
	}
	return nil
}

func (s *GameService) SearchGames(ctx context.Context, query string, from, size int) (int64, []models.Game, error) {
	return s.Index.SearchGames(ctx, query, from, size)
}
