package risk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

var ErrInvalidFeatures = errors.New("invalid features")

// DecodeFeatures reads a JSON object carrying all eight named features.
// Unknown keys are ignored; missing, null or non-finite values are rejected.
func DecodeFeatures(r io.Reader) (Features, error) {
	var raw map[string]*float64
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Features{}, fmt.Errorf("%w: %v", ErrInvalidFeatures, err)
	}
	var (
		vec     [NumFeatures]float64
		missing []string
	)
	for i, name := range FeatureNames {
		v, ok := raw[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return Features{}, fmt.Errorf("%w: %s is not a finite number", ErrInvalidFeatures, name)
		}
		vec[i] = *v
	}
	if len(missing) > 0 {
		return Features{}, fmt.Errorf("%w: missing %s", ErrInvalidFeatures, strings.Join(missing, ", "))
	}
	return Features{
		Pregnancies: vec[0], Glucose: vec[1], BloodPressure: vec[2], SkinThickness: vec[3],
		Insulin: vec[4], BMI: vec[5], DiabetesPedigreeFunction: vec[6], Age: vec[7],
	}, nil
}
