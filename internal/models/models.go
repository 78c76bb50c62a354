package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type PredictionLog struct {
	ID          string    `json:"id"`
	Probability float64   `json:"probability"`
	CreatedAt   time.Time `json:"created_at"`
}
