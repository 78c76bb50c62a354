package storage

import (
	"context"
	"errors"

	"diabot/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, u models.User) error
}

type PredictionStore interface {
	InsertPrediction(ctx context.Context, p models.PredictionLog) error
	ListRecentPredictions(ctx context.Context, limit int) ([]models.PredictionLog, error)
}
