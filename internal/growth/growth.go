// growth.go
//
// Shared child growth and nutrition records for parents and healthcare providers
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of growthdb.
// growthdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// growthdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with growthdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package growth positions measurements on WHO child growth reference curves.
//
// Reference tables are data: one ascending row slice per (gender, metric).
// Extending coverage means adding rows, the interpolation does not change.
package growth

import (
	"math"
	"strings"
	"time"
)

// Metric is a measurement with reference curves.
type Metric string

const (
	Weight            Metric = "weight"
	Height            Metric = "height"
	HeadCircumference Metric = "head-circumference"
)

// Gender selects a reference population.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseMetric normalizes a metric name from a path or flag.
func ParseMetric(name string) Metric {
	return Metric(strings.ToLower(strings.TrimSpace(name)))
}

// ParseGender normalizes a gender name from a query or flag.
func ParseGender(name string) Gender {
	return Gender(strings.ToLower(strings.TrimSpace(name)))
}

// Percentiles are the reference values at one age.
type Percentiles struct {
	P3  float64 `json:"p3"`
	P15 float64 `json:"p15"`
	P50 float64 `json:"p50"`
	P85 float64 `json:"p85"`
	P97 float64 `json:"p97"`
}

// Row is one table point.
type Row struct {
	AgeMonths float64 `json:"ageMonths"`
	Percentiles
}

type tableKey struct {
	gender Gender
	metric Metric
}

// Curve returns the reference rows for gender and metric, or nil when none exist.
func Curve(gender Gender, metric Metric) []Row {
	rows := tables[tableKey{gender, metric}]
	if len(rows) == 0 {
		return nil
	}
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}

// HasCurve reports whether reference data exists for the metric in any gender.
func HasCurve(metric Metric) bool {
	return len(tables[tableKey{Male, metric}]) > 0 || len(tables[tableKey{Female, metric}]) > 0
}

// Interpolate returns the percentile values at ageMonths, linearly interpolated
// between the bracketing rows. Ages outside the table clamp to the first or last row.
// ok is false when no table exists for gender and metric, or ageMonths is not finite.
func Interpolate(ageMonths float64, gender Gender, metric Metric) (p Percentiles, ok bool) {
	rows := tables[tableKey{gender, metric}]
	return interpolateRows(rows, ageMonths)
}

func interpolateRows(rows []Row, age float64) (Percentiles, bool) {
	if len(rows) == 0 || math.IsNaN(age) || math.IsInf(age, 0) {
		return Percentiles{}, false
	}
	if age <= rows[0].AgeMonths {
		return rows[0].Percentiles, true
	}
	last := rows[len(rows)-1]
	if age >= last.AgeMonths {
		return last.Percentiles, true
	}

	lower, upper := rows[0], rows[1]
	for i := 0; i < len(rows)-1; i++ {
		if rows[i].AgeMonths <= age && age <= rows[i+1].AgeMonths {
			lower, upper = rows[i], rows[i+1]
			break
		}
	}

	t := 0.0
	if upper.AgeMonths != lower.AgeMonths {
		t = (age - lower.AgeMonths) / (upper.AgeMonths - lower.AgeMonths)
	}
	lerp := func(a, b float64) float64 { return a + t*(b-a) }

	return Percentiles{
		P3:  lerp(lower.P3, upper.P3),
		P15: lerp(lower.P15, upper.P15),
		P50: lerp(lower.P50, upper.P50),
		P85: lerp(lower.P85, upper.P85),
		P97: lerp(lower.P97, upper.P97),
	}, true
}

// AgeInMonths is the fractional age at observed for a child born on dateOfBirth.
// Whole calendar months are counted, minus one when the observed day of month
// precedes the birth day, plus the day offset as a fraction of the observed month.
// The result is negative when observed predates birth; callers flag that case.
func AgeInMonths(dateOfBirth, observed time.Time) float64 {
	by, bm, bd := dateOfBirth.Date()
	oy, om, od := observed.Date()

	months := (oy-by)*12 + int(om) - int(bm)
	if od < bd {
		months--
	}

	dim := daysInMonth(oy, om)
	offset := ((od-bd+dim)%dim + dim) % dim

	return float64(months) + float64(offset)/float64(dim)
}

// BeforeBirth reports whether observed falls on a calendar day before dateOfBirth.
func BeforeBirth(dateOfBirth, observed time.Time) bool {
	by, bm, bd := dateOfBirth.Date()
	oy, om, od := observed.Date()
	b := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	o := time.Date(oy, om, od, 0, 0, 0, 0, time.UTC)
	return o.Before(b)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Round trims a computed value to the given number of decimals for display.
func Round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

// RoundPercentiles rounds every field of p.
func RoundPercentiles(p Percentiles, decimals int) Percentiles {
	return Percentiles{
		P3:  Round(p.P3, decimals),
		P15: Round(p.P15, decimals),
		P50: Round(p.P50, decimals),
		P85: Round(p.P85, decimals),
		P97: Round(p.P97, decimals),
	}
}
