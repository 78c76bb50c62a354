package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"diabot/internal/models"
	"diabot/internal/storage"
)

// Timestamps are stored as unix nanoseconds in UTC.

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var (
		u  models.User
		ns int64
	)
	err := r.db.SQL.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &ns)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, storage.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = time.Unix(0, ns).UTC()
	return u, nil
}

func (r *UserRepo) CreateUser(ctx context.Context, u models.User) error {
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.SQL.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, created.UTC().UnixNano())
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

type PredictionRepo struct {
	db *DB
}

func NewPredictionRepo(db *DB) *PredictionRepo {
	return &PredictionRepo{db: db}
}

func (r *PredictionRepo) InsertPrediction(ctx context.Context, p models.PredictionLog) error {
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.SQL.ExecContext(ctx,
		`INSERT INTO predictions (id, probability, created_at) VALUES (?, ?, ?)`,
		p.ID, p.Probability, created.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

func (r *PredictionRepo) ListRecentPredictions(ctx context.Context, limit int) ([]models.PredictionLog, error) {
	rows, err := r.db.SQL.QueryContext(ctx,
		`SELECT id, probability, created_at FROM predictions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	out := make([]models.PredictionLog, 0)
	for rows.Next() {
		var (
			p  models.PredictionLog
			ns int64
		)
		if err := rows.Scan(&p.ID, &p.Probability, &ns); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		p.CreatedAt = time.Unix(0, ns).UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}
	return out, nil
}
