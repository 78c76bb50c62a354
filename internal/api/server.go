package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"diabot/internal/app"
	"diabot/internal/auth"
	"diabot/internal/chat"
	"diabot/internal/models"
	"diabot/internal/risk"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const (
	ServiceName = "Diabetes Prediction API"

	defaultListLimit = 20
	maxListLimit     = 100
	maxBodyBytes     = 1 << 20
)

var (
	errMethodNotAllowed = errors.New("method not allowed")
	errNotFound         = errors.New("not found")
	errInvalidJSON      = errors.New("invalid json")
)

type Server struct {
	app *app.App
	log zerolog.Logger
}

func NewServer(a *app.App, log zerolog.Logger) *Server {
	return &Server{app: a, log: log}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/chat/", s.handleChat)
	mux.HandleFunc("/predict", s.handlePredict)
	mux.HandleFunc("/predict/", s.handlePredict)
	mux.HandleFunc("/predictions", s.handlePredictions)
	mux.HandleFunc("/auth/signup", s.handleSignup)
	mux.HandleFunc("/auth/login", s.handleLogin)
	return withAccessLog(s.log, withCORS(mux))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"service":         ServiceName,
		"predictor_ready": s.app.Predictor.Ready(),
		"documents":       len(s.app.Documents),
	})
}

// exactPath keeps the subtree patterns from matching /chat/anything.
func exactPath(r *http.Request, base string) bool {
	return r.URL.Path == base || r.URL.Path == base+"/"
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !exactPath(r, "/chat") {
		writeErr(w, http.StatusNotFound, errNotFound)
		return
	}
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}
	var req struct {
		Question string `json:"question"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	resp, err := s.app.Chat.Ask(r.Context(), req.Question)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if !exactPath(r, "/predict") {
		writeErr(w, http.StatusNotFound, errNotFound)
		return
	}
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}
	if !s.app.Predictor.Ready() {
		writeErr(w, http.StatusServiceUnavailable, risk.ErrUnavailable)
		return
	}
	features, err := risk.DecodeFeatures(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	prob, err := s.app.Predictor.Predict(features)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("prediction failed")
		status := http.StatusInternalServerError
		if errors.Is(err, risk.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		}
		writeErr(w, status, err)
		return
	}

	rec := models.PredictionLog{ID: uuid.NewString(), Probability: prob, CreatedAt: time.Now().UTC()}
	if err := s.app.Predictions.InsertPrediction(r.Context(), rec); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("could not record prediction")
	}
	writeJSON(w, http.StatusOK, map[string]any{"probability": prob})
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}
	limit := defaultListLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("limit must be a positive integer"))
			return
		}
		limit = min(n, maxListLimit)
	}
	logs, err := s.app.Predictions.ListRecentPredictions(r.Context(), limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"predictions": logs})
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	s.handleAuth(w, r, s.app.Auth.Signup)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.handleAuth(w, r, s.app.Auth.Login)
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, email, password string) (auth.Token, error)) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	tok, err := op(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, tok)
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErr(w, http.StatusUnauthorized, err)
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, auth.ErrInvalidInput), errors.Is(err, auth.ErrPasswordTooLong):
		writeErr(w, http.StatusBadRequest, err)
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("auth request failed")
		writeErr(w, http.StatusInternalServerError, err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	switch {
	case errors.Is(err, chat.ErrEmptyQuestion):
		return apiError{Code: "DIA-CHAT-4001", Message: "Question is empty"}
	case errors.Is(err, risk.ErrUnavailable):
		return apiError{Code: "DIA-PRED-5030", Message: "Model or scaler not loaded."}
	case errors.Is(err, risk.ErrPredictionFailed):
		return apiError{Code: "DIA-PRED-5000", Message: "Prediction failed: " + strings.TrimPrefix(err.Error(), risk.ErrPredictionFailed.Error()+": ")}
	case errors.Is(err, risk.ErrInvalidFeatures):
		return apiError{Code: "DIA-PRED-4001", Message: err.Error()}
	case errors.Is(err, auth.ErrEmailTaken):
		return apiError{Code: "DIA-AUTH-4009", Message: "Email already registered"}
	case errors.Is(err, auth.ErrInvalidInput):
		return apiError{Code: "DIA-AUTH-4001", Message: "Email and password are required"}
	case errors.Is(err, auth.ErrPasswordTooLong):
		return apiError{Code: "DIA-AUTH-4002", Message: "Password must be at most 72 bytes"}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return apiError{Code: "DIA-AUTH-4010", Message: "Invalid credentials"}
	case errors.Is(err, errInvalidJSON):
		return apiError{Code: "DIA-API-4002", Message: "Malformed JSON request body."}
	}

	switch {
	case status >= 500:
		return apiError{Code: "DIA-API-5000", Message: "Internal server error. Please retry or check service logs."}
	case status == http.StatusNotFound:
		return apiError{Code: "DIA-API-4004", Message: "Requested resource was not found."}
	case status == http.StatusMethodNotAllowed:
		return apiError{Code: "DIA-API-4005", Message: "This endpoint does not support the requested method."}
	case status == http.StatusBadRequest && err != nil:
		return apiError{Code: "DIA-API-4001", Message: err.Error()}
	}
	return apiError{Code: "DIA-API-4000", Message: "Request failed."}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withAccessLog(log zerolog.Logger, next http.Handler) http.Handler {
	h := hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(next)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	return hlog.NewHandler(log)(h)
}
