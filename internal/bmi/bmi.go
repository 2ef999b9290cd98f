// Package bmi computes the body mass index and its WHO adult category.
package bmi

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Unit selects how weight and height are read.
type Unit string

const (
	Metric   Unit = "metric"   // kilograms, centimetres
	Imperial Unit = "imperial" // pounds, inches
)

// Sentinel errors.
var (
	ErrInvalidMeasurement = errors.New("invalid measurement")
	ErrInvalidUnit        = errors.New("invalid unit")
)

// ParseUnit accepts "metric" or "imperial" case-insensitively; empty is metric.
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(strings.ToLower(strings.TrimSpace(s))); u {
	case "":
		return Metric, nil
	case Metric, Imperial:
		return u, nil
	default:
		return "", fmt.Errorf("%w: %q (must be metric or imperial)", ErrInvalidUnit, s)
	}
}

// Category boundaries.
const (
	underweightBelow = 18.5
	normalBelow      = 25
	overweightBelow  = 30
)

// Result is a computed index with its category and advice.
type Result struct {
	Value    float64 `json:"bmi"`
	Category string  `json:"category"`
	Advice   string  `json:"message"`
}

// Calculate returns the index for weight and height in unit.
// Non-positive or non-finite inputs fail with ErrInvalidMeasurement.
func Calculate(weight, height float64, unit Unit) (Result, error) {
	if !positive(weight) || !positive(height) {
		return Result{}, fmt.Errorf("%w: weight %v, height %v", ErrInvalidMeasurement, weight, height)
	}

	var v float64
	switch unit {
	case Metric, "":
		m := height / 100
		v = weight / (m * m)
	case Imperial:
		v = 703 * weight / (height * height)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}

	r := Result{Value: v}
	r.Category, r.Advice = classify(v)
	return r, nil
}

// Rounded returns Value to one decimal place.
func (r Result) Rounded() float64 {
	return math.Round(r.Value*10) / 10
}

func classify(v float64) (category, advice string) {
	switch {
	case v < underweightBelow:
		return "Underweight", "You may need to gain weight. Consider consulting a healthcare provider."
	case v < normalBelow:
		return "Normal Weight", "You are at a healthy weight. Keep up the good lifestyle!"
	case v < overweightBelow:
		return "Overweight", "Consider increasing physical activity and consulting a nutritionist."
	default:
		return "Obese", "Please consult with a healthcare professional for personalized advice."
	}
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
