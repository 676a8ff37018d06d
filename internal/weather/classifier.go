package weather

import "context"

// Classifier turns an observation into a category label.
// Implementations may call an external model; the label is treated as opaque
// text and parsed with ParseCategory by consumers.
type Classifier interface {
	Classify(ctx context.Context, obs *Observation) (string, error)
}

// ConditionClassifier derives the label from the provider's condition code.
// It is the fallback when no trained classifier is reachable.
type ConditionClassifier struct{}

// partlyCloudyMaxCover is the cloud-cover percentage below which clouds count
// as partly cloudy.
const partlyCloudyMaxCover = 50.0

// Classify implements Classifier.
func (ConditionClassifier) Classify(_ context.Context, obs *Observation) (string, error) {
	if obs == nil {
		return string(CategoryUnknown), nil
	}
	return string(categoryForCondition(obs)), nil
}

func categoryForCondition(obs *Observation) Category {
	switch obs.Condition {
	case ConditionClear:
		return CategorySunny
	case ConditionClouds:
		if obs.CloudCover < partlyCloudyMaxCover {
			return CategoryPartlyCloudy
		}
		return CategoryCloudy
	case ConditionDrizzle:
		return CategoryDrizzly
	case ConditionRain, ConditionThunderstorm:
		return CategoryRainy
	case ConditionSnow:
		return CategorySnowy
	case ConditionFog, ConditionMist, ConditionHaze:
		return CategoryFoggy
	default:
		return CategoryUnknown
	}
}
