package service

import (
	"fmt"
	"math"
	"strings"
)

const (
	kgPerLb     = 0.45359237
	mmHgPerKPa  = 7.50062
	UnitKg      = "kg"
	UnitLb      = "lb"
	UnitMmHg    = "mmHg"
	UnitKPa     = "kPa"
	DefaultUnit = UnitKg
)

func normalizeWeightUnit(unit string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "kg":
		return UnitKg, nil
	case "lb", "lbs":
		return UnitLb, nil
	default:
		return "", invalidf("invalid weight unit %q (use kg or lb)", unit)
	}
}

func normalizePressureUnit(unit string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "mmhg":
		return UnitMmHg, nil
	case "kpa":
		return UnitKPa, nil
	default:
		return "", invalidf("invalid pressure unit %q (use mmHg or kPa)", unit)
	}
}

func ToKg(weight float64, unit string) (float64, error) {
	if weight <= 0 {
		return 0, invalidf("weight must be > 0")
	}
	u, err := normalizeWeightUnit(unit)
	if err != nil {
		return 0, err
	}
	if u == UnitLb {
		return weight * kgPerLb, nil
	}
	return weight, nil
}

func WeightFromKg(weightKg float64, unit string) (float64, error) {
	u, err := normalizeWeightUnit(unit)
	if err != nil {
		return 0, err
	}
	if u == UnitLb {
		return weightKg / kgPerLb, nil
	}
	return weightKg, nil
}

// PressureFromMmHg converts a stored mmHg value for display. kPa values are
// rounded to one decimal.
func PressureFromMmHg(mmHg int, unit string) (float64, error) {
	u, err := normalizePressureUnit(unit)
	if err != nil {
		return 0, err
	}
	if u == UnitKPa {
		return math.Round(float64(mmHg)/mmHgPerKPa*10) / 10, nil
	}
	return float64(mmHg), nil
}

// FormatPressure renders "sys/dia unit" in the requested unit.
func FormatPressure(systolic, diastolic int, unit string) string {
	u, err := normalizePressureUnit(unit)
	if err != nil || u == UnitMmHg {
		return fmt.Sprintf("%d/%d mmHg", systolic, diastolic)
	}
	s, _ := PressureFromMmHg(systolic, u)
	d, _ := PressureFromMmHg(diastolic, u)
	return fmt.Sprintf("%.1f/%.1f kPa", s, d)
}
