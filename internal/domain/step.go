// Package domain defines the core types and interfaces for the recipe
// marketplace. All other packages depend on domain; domain depends on nothing.
package domain

import "fmt"

// StepKind is the tag of a step variant.
type StepKind int

const (
	KindAddIngredient StepKind = iota
	KindCooking
	KindDescription
)

// String returns the snake_case name of the kind.
func (k StepKind) String() string {
	switch k {
	case KindAddIngredient:
		return "add_ingredient"
	case KindCooking:
		return "cooking"
	case KindDescription:
		return "description"
	default:
		return "unknown"
	}
}

var kindNames = map[string]StepKind{
	"add_ingredient": KindAddIngredient,
	"cooking":        KindCooking,
	"description":    KindDescription,
}

// ParseStepKind converts a snake_case name back to a StepKind.
func ParseStepKind(name string) (StepKind, error) {
	if k, ok := kindNames[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown step kind %q", name)
}

// Variant is the type-specific payload of a step. The set of
// implementations is closed: AddIngredient, Cooking and Description.
type Variant interface {
	Kind() StepKind
	variant()
}

// AddIngredient adds Amount (in the ingredient's unit) of a catalog entry.
type AddIngredient struct {
	IngredientID int
	Amount       float64

	// Resolved is filled in when a recipe is fetched for playback so the
	// payload is self-contained. Nil while authoring.
	Resolved *IngredientRef
}

// Cooking is a timed step. Duration is an MM:SS string and is the
// authoritative countdown length. Levels are ordinal, 1..5.
type Cooking struct {
	Duration         string
	TemperatureLevel int
	MixSpeedLevel    int
}

// Description is free-form instructional text with no timer.
type Description struct {
	Text string
}

func (AddIngredient) Kind() StepKind { return KindAddIngredient }
func (Cooking) Kind() StepKind       { return KindCooking }
func (Description) Kind() StepKind   { return KindDescription }

func (AddIngredient) variant() {}
func (Cooking) variant()       {}
func (Description) variant()   {}

// IngredientRef is an ingredient resolved inline for playback.
type IngredientRef struct {
	Title string
	Unit  string
}

// Step is one instruction unit of a recipe.
type Step struct {
	ID      string
	Title   string
	Variant Variant
}

// Kind returns the tag of the step's variant.
func (s Step) Kind() StepKind {
	if s.Variant == nil {
		return -1
	}
	return s.Variant.Kind()
}

// WithVariant returns a copy of s carrying v. The tag of a step never
// changes, so a variant of a different kind is rejected.
func (s Step) WithVariant(v Variant) (Step, error) {
	if v == nil || s.Variant == nil || v.Kind() != s.Variant.Kind() {
		return s, ErrVariantKindChanged
	}
	s.Variant = v
	return s, nil
}
