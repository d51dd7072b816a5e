package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/localnerve/growthdb/internal/growth"
	"github.com/localnerve/growthdb/internal/types"
)

func runAge(dob, observed string, out io.Writer) error {
	born, err := time.Parse(types.DateLayout, dob)
	if err != nil {
		return fmt.Errorf("date of birth: %w", err)
	}
	at, err := time.Parse(types.DateLayout, observed)
	if err != nil {
		return fmt.Errorf("observed date: %w", err)
	}

	age := growth.AgeInMonths(born, at)
	if growth.BeforeBirth(born, at) {
		fmt.Fprintf(out, "%.2f months (before birth)\n", age)
		return nil
	}
	fmt.Fprintf(out, "%.2f months\n", age)
	return nil
}

func runPercentiles(gender, metric string, age float64, out io.Writer) error {
	if math.IsNaN(age) || math.IsInf(age, 0) {
		return fmt.Errorf("age must be a finite number of months, got %v", age)
	}
	g, m, err := curveKey(gender, metric)
	if err != nil {
		return err
	}
	p, ok := growth.Interpolate(age, g, m)
	if !ok {
		return fmt.Errorf("no %s %s reference table", g, m)
	}
	p = growth.RoundPercentiles(p, 2)
	fmt.Fprintf(out, "p3=%g p15=%g p50=%g p85=%g p97=%g\n", p.P3, p.P15, p.P50, p.P85, p.P97)
	return nil
}

func runCurve(gender, metric string, asJSON bool, out io.Writer) error {
	g, m, err := curveKey(gender, metric)
	if err != nil {
		return err
	}
	rows := growth.Curve(g, m)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "AGE\tP3\tP15\tP50\tP85\tP97")
	for _, r := range rows {
		fmt.Fprintf(w, "%g\t%g\t%g\t%g\t%g\t%g\n", r.AgeMonths, r.P3, r.P15, r.P50, r.P85, r.P97)
	}
	return w.Flush()
}

func curveKey(gender, metric string) (growth.Gender, growth.Metric, error) {
	g := growth.ParseGender(gender)
	if g != growth.Male && g != growth.Female {
		return "", "", fmt.Errorf("unknown gender %q", gender)
	}
	m := growth.ParseMetric(metric)
	if !growth.HasCurve(m) {
		return "", "", fmt.Errorf("no reference curve for %q", metric)
	}
	return g, m, nil
}
