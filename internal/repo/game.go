package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pokeru-app/backend/internal/models"
)

func (r *GormRepo) ListGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := r.DB.WithContext(ctx).Order("created_at desc").Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

func (r *GormRepo) GetGame(ctx context.Context, uid uuid.UUID) (*models.Game, error) {
	var game models.Game
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

func (r *GormRepo) CreateGame(ctx context.Context, game *models.Game) error {
	if game.UID == uuid.Nil {
		game.UID = uuid.New()
	}
	return r.DB.WithContext(ctx).Create(game).Error
}

func (r *GormRepo) SaveGame(ctx context.Context, game *models.Game) error {
	return r.DB.WithContext(ctx).Save(game).Error
}

func (r *GormRepo) DeleteGame(ctx context.Context, game *models.Game) error {
	return r.DB.WithContext(ctx).Delete(game).Error
}
