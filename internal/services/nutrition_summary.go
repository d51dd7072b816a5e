package services

import (
	"cmp"
	"context"
	"slices"

	"github.com/localnerve/growthdb/internal/models"
)

// IntakeGroup holds the statistics of one category.
type IntakeGroup struct {
	Key           string   `json:"key"`
	Count         int      `json:"count"`
	TotalAmount   float64  `json:"totalAmount"`
	AverageAmount float64  `json:"averageAmount"`
	Units         []string `json:"units"`
}

// Reaction pairs an observed reaction with the food that caused it.
type Reaction struct {
	Reaction string `json:"reaction"`
	FoodName string `json:"foodName"`
}

// SolidGroup adds the foods seen and reactions reported to an IntakeGroup.
type SolidGroup struct {
	IntakeGroup
	FoodNames []string   `json:"foodNames"`
	Reactions []Reaction `json:"reactions"`
}

type FluidSummary struct {
	Filter       RecordFilter  `json:"filter"`
	TotalRecords int           `json:"totalRecords"`
	ByFluidType  []IntakeGroup `json:"byFluidType"`
}

type SolidSummary struct {
	Filter       RecordFilter `json:"filter"`
	TotalRecords int          `json:"totalRecords"`
	ByFoodType   []SolidGroup `json:"byFoodType"`
	ByMealTime   []SolidGroup `json:"byMealTime"`
}

// SummarizeFluids groups the filtered fluid records by fluid type.
func (e *NutritionEngine) SummarizeFluids(ctx context.Context, actor models.Actor, filter RecordFilter) (*FluidSummary, error) {
	records, err := e.ListFluids(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	groups := groupRecords(records, func(r models.FluidRecord) string { return r.FluidType })
	summary := &FluidSummary{Filter: filter, TotalRecords: len(records), ByFluidType: make([]IntakeGroup, 0, len(groups))}
	for _, g := range groups {
		summary.ByFluidType = append(summary.ByFluidType, intakeStats(g.key, g.members,
			func(r models.FluidRecord) (float64, string) { return r.Amount, r.Unit }))
	}
	return summary, nil
}

// SummarizeSolids groups the filtered solid records by food type and, separately, by meal.
func (e *NutritionEngine) SummarizeSolids(ctx context.Context, actor models.Actor, filter RecordFilter) (*SolidSummary, error) {
	records, err := e.ListSolids(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	return &SolidSummary{
		Filter:       filter,
		TotalRecords: len(records),
		ByFoodType:   solidGroups(records, func(r models.SolidRecord) string { return r.FoodType }),
		ByMealTime:   solidGroups(records, func(r models.SolidRecord) string { return r.MealTime }),
	}, nil
}

func solidGroups(records []models.SolidRecord, key func(models.SolidRecord) string) []SolidGroup {
	groups := groupRecords(records, key)
	out := make([]SolidGroup, 0, len(groups))
	for _, g := range groups {
		sg := SolidGroup{
			IntakeGroup: intakeStats(g.key, g.members,
				func(r models.SolidRecord) (float64, string) { return r.Amount, r.Unit }),
			FoodNames: []string{},
			Reactions: []Reaction{},
		}
		for _, r := range g.members {
			if !slices.Contains(sg.FoodNames, r.FoodName) {
				sg.FoodNames = append(sg.FoodNames, r.FoodName)
			}
			if r.Reaction != "" {
				sg.Reactions = append(sg.Reactions, Reaction{Reaction: r.Reaction, FoodName: r.FoodName})
			}
		}
		slices.Sort(sg.FoodNames)
		out = append(out, sg)
	}
	return out
}

type recordGroup[T any] struct {
	key     string
	members []T
}

// groupRecords puts every record in exactly one group, groups sorted by key.
// Members keep their input order.
func groupRecords[T any](records []T, key func(T) string) []recordGroup[T] {
	index := map[string]int{}
	var groups []recordGroup[T]
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, recordGroup[T]{key: k})
		}
		groups[i].members = append(groups[i].members, r)
	}
	slices.SortFunc(groups, func(a, b recordGroup[T]) int {
		return cmp.Compare(a.key, b.key)
	})
	return groups
}

func intakeStats[T any](key string, members []T, amount func(T) (float64, string)) IntakeGroup {
	g := IntakeGroup{Key: key, Count: len(members), Units: []string{}}
	for _, m := range members {
		v, unit := amount(m)
		g.TotalAmount += v
		if !slices.Contains(g.Units, unit) {
			g.Units = append(g.Units, unit)
		}
	}
	if g.Count > 0 {
		g.AverageAmount = g.TotalAmount / float64(g.Count)
	}
	slices.Sort(g.Units)
	return g
}
