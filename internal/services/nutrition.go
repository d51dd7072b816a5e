// nutrition.go
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

package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/types"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// RecordFilter narrows a nutrition listing. Start and End are inclusive.
type RecordFilter struct {
	ParentID  string     `json:"parentId,omitempty"`
	ChildName string     `json:"childName,omitempty"`
	Start     *time.Time `json:"startDate,omitempty"`
	End       *time.Time `json:"endDate,omitempty"`
}

// FluidInput is a new fluid record or a partial update of one.
type FluidInput struct {
	ChildName *string
	FluidType *string
	Amount    *float64
	Unit      *string
	Time      *time.Time
	Notes     *string
}

// SolidInput is a new solid record or a partial update of one.
type SolidInput struct {
	ChildName *string
	FoodType  *string
	FoodName  *string
	MealTime  *string
	Amount    *float64
	Unit      *string
	Time      *time.Time
	Notes     *string
	Reaction  *string
}

// NutritionEngine stores fluid and solid intake records and summarizes them.
type NutritionEngine struct {
	db       *gorm.DB
	graph    *RelationshipGraph
	log      zerolog.Logger
	notesMax int
}

func NewNutritionEngine(db *gorm.DB, graph *RelationshipGraph, log zerolog.Logger, notesMax int) *NutritionEngine {
	return &NutritionEngine{
		db:       db,
		graph:    graph,
		log:      log.With().Str("component", "nutrition").Logger(),
		notesMax: notesMax,
	}
}

// CreateFluids validates every input, then stores them all or none.
func (e *NutritionEngine) CreateFluids(ctx context.Context, actor models.Actor, inputs []FluidInput) ([]models.FluidRecord, error) {
	if err := requireParent(actor); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, types.Validation("records", ">= 1", "no records supplied")
	}

	now := time.Now().UTC()
	records := make([]models.FluidRecord, len(inputs))
	for i, in := range inputs {
		rec := models.FluidRecord{RecordID: uuid.NewString(), ParentID: actor.ID, Time: now}
		if err := e.applyFluid(&rec, in, true); err != nil {
			return nil, err
		}
		records[i] = rec
	}

	if err := e.db.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, fmt.Errorf("create fluid records: %w", err)
	}
	e.log.Info().Str("parent", actor.ID).Int("count", len(records)).Msg("fluid records created")
	return records, nil
}

// UpdateFluid applies the present fields of patch to one of the actor's records.
func (e *NutritionEngine) UpdateFluid(ctx context.Context, actor models.Actor, id string, patch FluidInput) (*models.FluidRecord, error) {
	return updateOwned(ctx, e.db, actor, id, func(rec *models.FluidRecord) error {
		return e.applyFluid(rec, patch, false)
	})
}

func (e *NutritionEngine) DeleteFluid(ctx context.Context, actor models.Actor, id string) error {
	return deleteOwned[models.FluidRecord](ctx, e.db, actor, id)
}

// ListFluids returns fluid records visible to actor, oldest first.
func (e *NutritionEngine) ListFluids(ctx context.Context, actor models.Actor, filter RecordFilter) ([]models.FluidRecord, error) {
	owners, err := e.owners(ctx, actor, filter)
	if err != nil {
		return nil, err
	}
	return listRecords[models.FluidRecord](ctx, e.db, owners, filter)
}

// CreateSolids validates every input, then stores them all or none.
func (e *NutritionEngine) CreateSolids(ctx context.Context, actor models.Actor, inputs []SolidInput) ([]models.SolidRecord, error) {
	if err := requireParent(actor); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, types.Validation("records", ">= 1", "no records supplied")
	}

	now := time.Now().UTC()
	records := make([]models.SolidRecord, len(inputs))
	for i, in := range inputs {
		rec := models.SolidRecord{RecordID: uuid.NewString(), ParentID: actor.ID, Time: now}
		if err := e.applySolid(&rec, in, true); err != nil {
			return nil, err
		}
		records[i] = rec
	}

	if err := e.db.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, fmt.Errorf("create solid records: %w", err)
	}
	e.log.Info().Str("parent", actor.ID).Int("count", len(records)).Msg("solid records created")
	return records, nil
}

func (e *NutritionEngine) UpdateSolid(ctx context.Context, actor models.Actor, id string, patch SolidInput) (*models.SolidRecord, error) {
	return updateOwned(ctx, e.db, actor, id, func(rec *models.SolidRecord) error {
		return e.applySolid(rec, patch, false)
	})
}

func (e *NutritionEngine) DeleteSolid(ctx context.Context, actor models.Actor, id string) error {
	return deleteOwned[models.SolidRecord](ctx, e.db, actor, id)
}

// ListSolids returns solid records visible to actor, oldest first.
func (e *NutritionEngine) ListSolids(ctx context.Context, actor models.Actor, filter RecordFilter) ([]models.SolidRecord, error) {
	owners, err := e.owners(ctx, actor, filter)
	if err != nil {
		return nil, err
	}
	return listRecords[models.SolidRecord](ctx, e.db, owners, filter)
}

// owners resolves whose records actor may see under filter.
// Parents see their own; providers see one connected parent when ParentID is
// set, otherwise every connected parent.
func (e *NutritionEngine) owners(ctx context.Context, actor models.Actor, filter RecordFilter) ([]string, error) {
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, types.Validation("endDate", ">= startDate", "endDate precedes startDate")
	}
	if !actor.IsProvider() {
		if filter.ParentID != "" && filter.ParentID != actor.ID {
			return nil, types.AccessDenied("%s may not access records of %s", actor.ID, filter.ParentID)
		}
		return []string{actor.ID}, nil
	}
	if filter.ParentID != "" {
		if err := e.graph.Authorize(ctx, actor, filter.ParentID); err != nil {
			return nil, err
		}
		e.log.Info().Str("provider", actor.ID).Str("parent", filter.ParentID).Msg("nutrition read")
		return []string{filter.ParentID}, nil
	}
	return e.graph.ConnectedSubjects(ctx, actor)
}

func (e *NutritionEngine) applyFluid(rec *models.FluidRecord, in FluidInput, create bool) error {
	if !create && in == (FluidInput{}) {
		return types.Validation("patch", "at least one field", "nothing to update")
	}
	if err := setText(&rec.ChildName, in.ChildName, "childName", maxNameLength, create); err != nil {
		return err
	}
	if err := setText(&rec.FluidType, in.FluidType, "fluidType", 64, create); err != nil {
		return err
	}
	if err := setAmount(&rec.Amount, in.Amount, create); err != nil {
		return err
	}
	if err := setText(&rec.Unit, in.Unit, "unit", 16, create); err != nil {
		return err
	}
	if in.Time != nil {
		rec.Time = in.Time.UTC()
	}
	return e.setNotes(&rec.Notes, in.Notes)
}

func (e *NutritionEngine) applySolid(rec *models.SolidRecord, in SolidInput, create bool) error {
	if !create && in == (SolidInput{}) {
		return types.Validation("patch", "at least one field", "nothing to update")
	}
	if err := setText(&rec.ChildName, in.ChildName, "childName", maxNameLength, create); err != nil {
		return err
	}
	if err := setText(&rec.FoodType, in.FoodType, "foodType", 64, create); err != nil {
		return err
	}
	if err := setText(&rec.FoodName, in.FoodName, "foodName", maxNameLength, create); err != nil {
		return err
	}
	if err := setAmount(&rec.Amount, in.Amount, create); err != nil {
		return err
	}
	if err := setText(&rec.Unit, in.Unit, "unit", 16, create); err != nil {
		return err
	}
	if in.Time != nil {
		rec.Time = in.Time.UTC()
	}

	switch {
	case in.MealTime != nil && strings.TrimSpace(*in.MealTime) != "":
		meal, err := parseMealTime(*in.MealTime)
		if err != nil {
			return err
		}
		rec.MealTime = meal
	case create:
		rec.MealTime = MealTimeAt(clockOf(in.Time, rec.Time))
	}

	if in.Reaction != nil {
		reaction := strings.TrimSpace(*in.Reaction)
		if utf8.RuneCountInString(reaction) > maxNameLength {
			return types.Validation("reaction", "<= 255 characters", "reaction is too long")
		}
		rec.Reaction = reaction
	}
	return e.setNotes(&rec.Notes, in.Notes)
}

func (e *NutritionEngine) setNotes(dst *string, notes *string) error {
	if notes == nil {
		return nil
	}
	if utf8.RuneCountInString(*notes) > e.notesMax {
		return types.Validation("notes", fmt.Sprintf("<= %d characters", e.notesMax), "notes are too long")
	}
	*dst = *notes
	return nil
}

// MealTimeAt derives the meal from the local clock time of t.
func MealTimeAt(t time.Time) string {
	switch h := t.Hour(); {
	case h < 11:
		return models.MealBreakfast
	case h < 16:
		return models.MealLunch
	case h < 21:
		return models.MealDinner
	}
	return models.MealSnack
}

func parseMealTime(s string) (string, error) {
	switch meal := strings.ToLower(strings.TrimSpace(s)); meal {
	case models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealSnack:
		return meal, nil
	}
	return "", types.Validation("mealTime", "breakfast|lunch|dinner|snack", "invalid mealTime %q", s)
}

// clockOf prefers the caller's time, keeping its zone, for meal derivation.
func clockOf(given *time.Time, fallback time.Time) time.Time {
	if given != nil {
		return *given
	}
	return fallback
}

func setText(dst *string, v *string, field string, max int, required bool) error {
	if v == nil {
		if required {
			return types.Validation(field, "required", "%s is required", field)
		}
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return types.Validation(field, "required", "%s is required", field)
	}
	if utf8.RuneCountInString(s) > max {
		return types.Validation(field, fmt.Sprintf("<= %d characters", max), "%s is too long", field)
	}
	*dst = s
	return nil
}

func setAmount(dst *float64, v *float64, required bool) error {
	if v == nil {
		if required {
			return types.Validation("amount", "> 0", "amount is required")
		}
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		return types.Validation("amount", "> 0", "amount must be greater than zero")
	}
	*dst = *v
	return nil
}

func requireParent(actor models.Actor) error {
	if actor.IsProvider() {
		return types.Forbidden("nutrition records are written by parents only")
	}
	return nil
}

// ownedRecord is a nutrition record with a single owning parent.
type ownedRecord interface {
	models.FluidRecord | models.SolidRecord
}

func ownerOf[T ownedRecord](rec *T) string {
	switch r := any(rec).(type) {
	case *models.FluidRecord:
		return r.ParentID
	case *models.SolidRecord:
		return r.ParentID
	}
	return ""
}

func findOwned[T ownedRecord](tx *gorm.DB, actor models.Actor, id string) (*T, error) {
	var rec T
	if err := tx.Where("record_id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("record %s not found", id)
		}
		return nil, fmt.Errorf("find record: %w", err)
	}
	if ownerOf(&rec) != actor.ID {
		return nil, types.Forbidden("record %s belongs to another parent", id)
	}
	return &rec, nil
}

func updateOwned[T ownedRecord](ctx context.Context, db *gorm.DB, actor models.Actor, id string, apply func(*T) error) (*T, error) {
	if err := requireParent(actor); err != nil {
		return nil, err
	}
	var out *T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := findOwned[T](tx, actor, id)
		if err != nil {
			return err
		}
		if err := apply(rec); err != nil {
			return err
		}
		if err := tx.Save(rec).Error; err != nil {
			return fmt.Errorf("update record: %w", err)
		}
		out = rec
		return nil
	})
	return out, err
}

func deleteOwned[T ownedRecord](ctx context.Context, db *gorm.DB, actor models.Actor, id string) error {
	if err := requireParent(actor); err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := findOwned[T](tx, actor, id)
		if err != nil {
			return err
		}
		if err := tx.Where("record_id = ?", id).Delete(rec).Error; err != nil {
			return fmt.Errorf("delete record: %w", err)
		}
		return nil
	})
}

func listRecords[T ownedRecord](ctx context.Context, db *gorm.DB, owners []string, filter RecordFilter) ([]T, error) {
	out := []T{}
	if len(owners) == 0 {
		return out, nil
	}
	q := db.WithContext(ctx).Where("parent_id IN ?", owners)
	if filter.ChildName != "" {
		q = q.Where("child_name = ?", filter.ChildName)
	}
	if filter.Start != nil {
		q = q.Where("taken_at >= ?", filter.Start.UTC())
	}
	if filter.End != nil {
		q = q.Where("taken_at <= ?", filter.End.UTC())
	}
	if err := q.Order("taken_at ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return out, nil
}
