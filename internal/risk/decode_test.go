package risk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeFeatures(t *testing.T) {
	body := `{"Pregnancies":2,"Glucose":120,"BloodPressure":70,"SkinThickness":30,
		"Insulin":100,"BMI":25.0,"DiabetesPedigreeFunction":0.5,"Age":30,"Extra":1}`
	f, err := DecodeFeatures(strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, ExampleFeatures, f)
}

func TestDecodeFeaturesRejectsMissingAndBadInput(t *testing.T) {
	_, err := DecodeFeatures(strings.NewReader(`{"Glucose":120,"Age":null}`))
	require.ErrorIs(t, err, ErrInvalidFeatures)
	require.Contains(t, err.Error(), "Pregnancies")
	require.Contains(t, err.Error(), "Age")

	_, err = DecodeFeatures(strings.NewReader(`{"Glucose":"high"}`))
	require.ErrorIs(t, err, ErrInvalidFeatures)

	_, err = DecodeFeatures(strings.NewReader(`not json`))
	require.ErrorIs(t, err, ErrInvalidFeatures)
}
