package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrGameNotFound = errors.New("game not found")
)

type GormRepo struct {
	DB *gorm.DB
}
