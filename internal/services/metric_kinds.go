package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/types"
)

// KindRule describes the value a metric kind accepts.
type KindRule struct {
	Kind         models.MetricKind `json:"kind"`
	Unit         string            `json:"unit"`
	Min          float64           `json:"min"`
	Max          float64           `json:"max"`
	MinExclusive bool              `json:"minExclusive"`
	RequiresSide bool              `json:"requiresSide"`
}

var metricKinds = map[models.MetricKind]KindRule{
	models.MetricWeight:            {Kind: models.MetricWeight, Unit: "kg", Min: 0, Max: 50, MinExclusive: true},
	models.MetricHeight:            {Kind: models.MetricHeight, Unit: "cm", Min: 0, Max: 130, MinExclusive: true},
	models.MetricHeadCircumference: {Kind: models.MetricHeadCircumference, Unit: "cm", Min: 20, Max: 60},
	models.MetricBreastfeeding:     {Kind: models.MetricBreastfeeding, Unit: "min", Min: 1, Max: 60, RequiresSide: true},
}

// LookupKind resolves a metric kind name.
func LookupKind(name string) (KindRule, error) {
	ks, ok := metricKinds[models.MetricKind(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return KindRule{}, types.Validation("kind", "weight|height|head-circumference|breastfeeding", "unknown metric kind %q", name)
	}
	return ks, nil
}

// Bound renders the accepted range, e.g. "0 < value <= 50 kg".
func (k KindRule) Bound() string {
	op := "<="
	if k.MinExclusive {
		op = "<"
	}
	return fmt.Sprintf("%g %s value <= %g %s", k.Min, op, k.Max, k.Unit)
}

func (k KindRule) validateValue(v float64) error {
	below := v < k.Min || (k.MinExclusive && v == k.Min)
	if math.IsNaN(v) || math.IsInf(v, 0) || below || v > k.Max {
		return types.Validation("value", k.Bound(), "%s value %g is out of range", k.Kind, v)
	}
	return nil
}

// normalizeSide validates side for kinds that need one and clears it for the rest.
func (k KindRule) normalizeSide(side string) (string, error) {
	if !k.RequiresSide {
		return "", nil
	}
	side = strings.ToLower(strings.TrimSpace(side))
	switch side {
	case models.SideLeft, models.SideRight, models.SideBoth:
		return side, nil
	case "":
		return "", types.Validation("side", "left|right|both", "%s entries require a side", k.Kind)
	}
	return "", types.Validation("side", "left|right|both", "invalid side %q", side)
}
