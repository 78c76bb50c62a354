// Command predict scores one patient with the configured model artifacts.
package main

import (
	"flag"
	"fmt"
	"os"

	"diabot/internal/config"
	"diabot/internal/logging"
	"diabot/internal/risk"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ex := risk.ExampleFeatures
	f := risk.Features{}
	flag.Float64Var(&f.Pregnancies, "pregnancies", ex.Pregnancies, "number of pregnancies")
	flag.Float64Var(&f.Glucose, "glucose", ex.Glucose, "plasma glucose")
	flag.Float64Var(&f.BloodPressure, "blood-pressure", ex.BloodPressure, "diastolic blood pressure")
	flag.Float64Var(&f.SkinThickness, "skin-thickness", ex.SkinThickness, "triceps skin fold thickness")
	flag.Float64Var(&f.Insulin, "insulin", ex.Insulin, "serum insulin")
	flag.Float64Var(&f.BMI, "bmi", ex.BMI, "body mass index")
	flag.Float64Var(&f.DiabetesPedigreeFunction, "pedigree", ex.DiabetesPedigreeFunction, "diabetes pedigree function")
	flag.Float64Var(&f.Age, "age", ex.Age, "age in years")
	modelPath := flag.String("model", cfg.ModelPath, "classifier artifact")
	scalerPath := flag.String("scaler", cfg.ScalerPath, "scaler artifact")
	flag.Parse()

	p := risk.Load(*modelPath, *scalerPath, log)
	prob, err := p.Predict(f)
	if err != nil {
		log.Error().Err(err).Msg("prediction failed")
		os.Exit(1)
	}
	fmt.Printf("Predicted outcome: %d (1 = diabetes, 0 = no diabetes)\n", risk.Outcome(prob))
	fmt.Printf("Probability of having diabetes: %.2f\n", prob)
}
