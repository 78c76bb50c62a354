package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

var (
	ErrUnavailable      = errors.New("model or scaler not loaded")
	ErrPredictionFailed = errors.New("prediction failed")
)

// Predictor is immutable after Load and safe for concurrent use.
type Predictor struct {
	scaler     *Scaler
	classifier Classifier
	reason     error
}

// Load never fails: when either artifact cannot be loaded the predictor is
// returned disabled and every Predict call reports ErrUnavailable.
func Load(modelPath, scalerPath string, log zerolog.Logger) *Predictor {
	clf, err := LoadClassifier(modelPath)
	if err != nil {
		log.Warn().Err(err).Str("path", modelPath).Msg("could not load model, predictions disabled")
		return &Predictor{reason: err}
	}
	if wc, ok := clf.(widthChecker); ok {
		if err := wc.accepts(NumFeatures); err != nil {
			log.Warn().Err(err).Str("path", modelPath).Msg("model does not fit the feature row, predictions disabled")
			return &Predictor{reason: err}
		}
	}
	sc, err := LoadScaler(scalerPath)
	if err != nil {
		log.Warn().Err(err).Str("path", scalerPath).Msg("could not load scaler, predictions disabled")
		return &Predictor{reason: err}
	}
	if len(sc.Mean) != NumFeatures {
		err := fmt.Errorf("scaler has %d features, want %d", len(sc.Mean), NumFeatures)
		log.Warn().Err(err).Msg("predictions disabled")
		return &Predictor{reason: err}
	}
	log.Info().Str("model", modelPath).Str("scaler", scalerPath).Msg("risk model loaded")
	return New(sc, clf)
}

func New(sc *Scaler, clf Classifier) *Predictor {
	return &Predictor{scaler: sc, classifier: clf}
}

func (p *Predictor) Ready() bool {
	return p != nil && p.scaler != nil && p.classifier != nil
}

// Reason explains why a disabled predictor could not load.
func (p *Predictor) Reason() error {
	if p == nil {
		return ErrUnavailable
	}
	return p.reason
}

// Outcome labels a probability as 1 (diabetes) or 0. Exactly 0.5 is 0, the
// first class winning a tie.
func Outcome(prob float64) int {
	if prob > 0.5 {
		return 1
	}
	return 0
}

// Predict returns the probability of diabetes in [0,1].
func (p *Predictor) Predict(f Features) (prob float64, err error) {
	if !p.Ready() {
		return 0, ErrUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			prob, err = 0, fmt.Errorf("%w: %v", ErrPredictionFailed, r)
		}
	}()
	x, err := p.scaler.Transform(f.Vector())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}
	prob, err = p.classifier.PredictProba(x)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}
	if math.IsNaN(prob) || prob < 0 || prob > 1 {
		return 0, fmt.Errorf("%w: probability %v out of range", ErrPredictionFailed, prob)
	}
	return prob, nil
}
