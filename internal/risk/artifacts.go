package risk

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Scaler standardises features as (x - mean) / scale.
type Scaler struct {
	Mean  []float64 `yaml:"mean"`
	Scale []float64 `yaml:"scale"`
}

func (s *Scaler) validate() error {
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("scaler: mean has %d values, scale has %d", len(s.Mean), len(s.Scale))
	}
	return nil
}

func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}

// Classifier returns the probability of the positive class.
type Classifier interface {
	PredictProba(x []float64) (float64, error)
}

// widthChecker is implemented by classifiers that can tell at load time
// whether they fit rows of n features.
type widthChecker interface {
	accepts(n int) error
}

type modelFile struct {
	Kind      string    `yaml:"kind"`
	Trees     []Tree    `yaml:"trees"`
	Coef      []float64 `yaml:"coef"`
	Intercept float64   `yaml:"intercept"`
}

// LoadScaler reads a YAML (or JSON) scaler artifact.
func LoadScaler(path string) (*Scaler, error) {
	var s Scaler
	if err := decodeFile(path, &s); err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}
	return &s, nil
}

// LoadClassifier reads a YAML (or JSON) classifier artifact.
func LoadClassifier(path string) (Classifier, error) {
	var m modelFile
	if err := decodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	switch m.Kind {
	case "random_forest":
		f := &Forest{Trees: m.Trees}
		if err := f.validate(); err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		return f, nil
	case "logistic":
		if len(m.Coef) == 0 {
			return nil, errors.New("load model: logistic model has no coefficients")
		}
		return &Logistic{Coef: m.Coef, Intercept: m.Intercept}, nil
	default:
		return nil, fmt.Errorf("load model: unknown kind %q", m.Kind)
	}
}

func decodeFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Logistic is a binary logistic regression.
type Logistic struct {
	Coef      []float64
	Intercept float64
}

func (l *Logistic) accepts(n int) error {
	if len(l.Coef) != n {
		return fmt.Errorf("logistic model has %d coefficients, rows have %d", len(l.Coef), n)
	}
	return nil
}

func (l *Logistic) PredictProba(x []float64) (float64, error) {
	if len(x) != len(l.Coef) {
		return 0, fmt.Errorf("logistic model expects %d features, got %d", len(l.Coef), len(x))
	}
	z := l.Intercept
	for i, v := range x {
		z += l.Coef[i] * v
	}
	return 1 / (1 + math.Exp(-z)), nil
}
