package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	APIAddr          string
	DatabaseURL      string
	KnowledgeDir     string
	KnowledgeExts    []string
	ModelPath        string
	ScalerPath       string
	LLMProvider      string
	GeminiModel      string
	GeminiBaseURL    string
	LLMTimeoutSecs   int
	JWTSecret        string
	JWTTTLMinutes    int
	LogLevel         string
	LogFormat        string
	ShutdownTimeoutS int
}

func Load() Config {
	return Config{
		APIAddr:          getenv("DIABOT_API_ADDR", ":8000"),
		DatabaseURL:      getenv("DIABOT_DATABASE_URL", "sqlite:./data/diabot.db"),
		KnowledgeDir:     getenv("DIABOT_KNOWLEDGE_DIR", "./knowledge"),
		KnowledgeExts:    getenvList("DIABOT_KNOWLEDGE_EXTS", []string{".txt"}),
		ModelPath:        getenv("DIABOT_MODEL_PATH", "./models/model.yaml"),
		ScalerPath:       getenv("DIABOT_SCALER_PATH", "./models/scaler.yaml"),
		LLMProvider:      getenv("DIABOT_LLM_PROVIDER", "gemini"),
		GeminiModel:      getenv("DIABOT_GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:    getenv("DIABOT_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		LLMTimeoutSecs:   getenvInt("DIABOT_LLM_TIMEOUT_SECONDS", 15),
		JWTSecret:        os.Getenv("DIABOT_JWT_SECRET"),
		JWTTTLMinutes:    getenvInt("DIABOT_JWT_TTL_MINUTES", 60),
		LogLevel:         getenv("DIABOT_LOG_LEVEL", "info"),
		LogFormat:        getenv("DIABOT_LOG_FORMAT", "console"),
		ShutdownTimeoutS: getenvInt("DIABOT_SHUTDOWN_TIMEOUT_SECONDS", 10),
	}
}

func getenv(k, fallback string) string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// getenvList reads a comma separated list, e.g. ".txt,.pdf".
func getenvList(k string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return fallback
	}
	out := make([]string, 0, 4)
	for _, p := range strings.Split(v, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
