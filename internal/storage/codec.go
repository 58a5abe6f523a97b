package storage

import (
	"encoding/json"
	"fmt"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// stepPayload is the JSON form of a step variant. Only the fields of the
// stored kind are set.
type stepPayload struct {
	IngredientID     int     `json:"ingredient_id,omitempty"`
	Amount           float64 `json:"amount,omitempty"`
	Duration         string  `json:"duration,omitempty"`
	TemperatureLevel int     `json:"temperature_level,omitempty"`
	MixSpeedLevel    int     `json:"mix_speed_level,omitempty"`
	Text             string  `json:"text,omitempty"`
}

func encodeVariant(v domain.Variant) (string, string, error) {
	var p stepPayload
	switch v := v.(type) {
	case domain.AddIngredient:
		p.IngredientID = v.IngredientID
		p.Amount = v.Amount
	case domain.Cooking:
		p.Duration = v.Duration
		p.TemperatureLevel = v.TemperatureLevel
		p.MixSpeedLevel = v.MixSpeedLevel
	case domain.Description:
		p.Text = v.Text
	default:
		return "", "", fmt.Errorf("encoding step: unsupported variant %T", v)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", "", fmt.Errorf("encoding step: %w", err)
	}
	return v.Kind().String(), string(raw), nil
}

func decodeVariant(kind, raw string) (domain.Variant, error) {
	k, err := domain.ParseStepKind(kind)
	if err != nil {
		return nil, err
	}
	var p stepPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decoding %s step: %w", kind, err)
	}
	switch k {
	case domain.KindAddIngredient:
		return domain.AddIngredient{IngredientID: p.IngredientID, Amount: p.Amount}, nil
	case domain.KindCooking:
		return domain.Cooking{Duration: p.Duration, TemperatureLevel: p.TemperatureLevel, MixSpeedLevel: p.MixSpeedLevel}, nil
	default:
		return domain.Description{Text: p.Text}, nil
	}
}
