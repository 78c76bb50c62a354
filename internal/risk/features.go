// Package risk scores diabetes risk from eight clinical features.
package risk

// Features are the model inputs, in the order the model was trained on.
type Features struct {
	Pregnancies              float64 `json:"Pregnancies"`
	Glucose                  float64 `json:"Glucose"`
	BloodPressure            float64 `json:"BloodPressure"`
	SkinThickness            float64 `json:"SkinThickness"`
	Insulin                  float64 `json:"Insulin"`
	BMI                      float64 `json:"BMI"`
	DiabetesPedigreeFunction float64 `json:"DiabetesPedigreeFunction"`
	Age                      float64 `json:"Age"`
}

const NumFeatures = 8

// FeatureNames lists the JSON field names in vector order.
var FeatureNames = [NumFeatures]string{
	"Pregnancies", "Glucose", "BloodPressure", "SkinThickness",
	"Insulin", "BMI", "DiabetesPedigreeFunction", "Age",
}

// ExampleFeatures is the reference patient used by the predict CLI.
var ExampleFeatures = Features{
	Pregnancies: 2, Glucose: 120, BloodPressure: 70, SkinThickness: 30,
	Insulin: 100, BMI: 25.0, DiabetesPedigreeFunction: 0.5, Age: 30,
}

func (f Features) Vector() []float64 {
	return []float64{
		f.Pregnancies, f.Glucose, f.BloodPressure, f.SkinThickness,
		f.Insulin, f.BMI, f.DiabetesPedigreeFunction, f.Age,
	}
}
