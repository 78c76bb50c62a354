package storage

import (
	"context"
	"fmt"

	"diabot/internal/models"
)

type PredictionRepo struct {
	db *DB
}

func NewPredictionRepo(db *DB) *PredictionRepo {
	return &PredictionRepo{db: db}
}

func (r *PredictionRepo) InsertPrediction(ctx context.Context, p models.PredictionLog) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO predictions (id, probability) VALUES ($1::uuid, $2)`, p.ID, p.Probability)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

func (r *PredictionRepo) ListRecentPredictions(ctx context.Context, limit int) ([]models.PredictionLog, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id::text, probability, created_at FROM predictions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	out := make([]models.PredictionLog, 0)
	for rows.Next() {
		var p models.PredictionLog
		if err := rows.Scan(&p.ID, &p.Probability, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}
	return out, nil
}
