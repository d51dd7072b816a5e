// profile.go
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
	"strings"
	"time"
	"unicode/utf8"

	"github.com/localnerve/growthdb/internal/growth"
	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileInput is the parent supplied description of their child.
type ProfileInput struct {
	ChildName   string
	DateOfBirth time.Time
	Gender      string
}

// ProfileService stores one child profile per subject.
type ProfileService struct {
	db    *gorm.DB
	graph *RelationshipGraph
}

func NewProfileService(db *gorm.DB, graph *RelationshipGraph) *ProfileService {
	return &ProfileService{db: db, graph: graph}
}

// Upsert writes the profile of the actor's own subject.
func (s *ProfileService) Upsert(ctx context.Context, actor models.Actor, in ProfileInput) (*models.ChildProfile, error) {
	if actor.IsProvider() {
		return nil, types.Forbidden("only parents maintain a child profile")
	}

	name := strings.TrimSpace(in.ChildName)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, types.Validation("childName", "1..255 characters", "childName is required")
	}
	if in.DateOfBirth.IsZero() {
		return nil, types.Validation("dateOfBirth", "YYYY-MM-DD", "dateOfBirth is required")
	}
	dob := truncateDate(in.DateOfBirth)
	if dob.After(time.Now().UTC()) {
		return nil, types.Validation("dateOfBirth", "<= today", "dateOfBirth is in the future")
	}
	gender := models.Gender(strings.ToLower(strings.TrimSpace(in.Gender)))
	if gender != models.GenderMale && gender != models.GenderFemale {
		return nil, types.Validation("gender", "male|female", "gender must be male or female")
	}

	profile := models.ChildProfile{
		SubjectID:   actor.ID,
		ChildName:   name,
		DateOfBirth: datatypes.Date(dob),
		Gender:      gender,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"child_name", "date_of_birth", "gender", "updated_at"}),
	}).Create(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("save child profile: %w", err)
	}
	return s.load(ctx, actor.ID)
}

// Get returns the profile of subjectID to an authorized actor.
func (s *ProfileService) Get(ctx context.Context, actor models.Actor, subjectID string) (*models.ChildProfile, error) {
	if err := s.graph.Authorize(ctx, actor, subjectID); err != nil {
		return nil, err
	}
	return s.load(ctx, subjectID)
}

func (s *ProfileService) load(ctx context.Context, subjectID string) (*models.ChildProfile, error) {
	var profile models.ChildProfile
	err := s.db.WithContext(ctx).Where("subject_id = ?", subjectID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("no child profile for %s", subjectID)
		}
		return nil, fmt.Errorf("load child profile: %w", err)
	}
	return &profile, nil
}

// GrowthPoint is an entry positioned on the reference curve.
type GrowthPoint struct {
	models.MetricEntry
	AgeMonths   float64             `json:"ageMonths"`
	BeforeBirth bool                `json:"beforeBirth,omitempty"`
	Percentiles *growth.Percentiles `json:"percentiles"`
}

// GrowthOverlay is a metric history paired with reference percentiles.
type GrowthOverlay struct {
	SubjectID   string            `json:"subjectId"`
	Kind        models.MetricKind `json:"kind"`
	Unit        string            `json:"unit"`
	Gender      models.Gender     `json:"gender"`
	DateOfBirth string            `json:"dateOfBirth"`
	Version     uint64            `json:"__version"`
	Points      []GrowthPoint     `json:"points"`
}

// GrowthService joins metric histories, child profiles and the reference curves.
type GrowthService struct {
	metrics  *MetricStore
	profiles *ProfileService
}

func NewGrowthService(metrics *MetricStore, profiles *ProfileService) *GrowthService {
	return &GrowthService{metrics: metrics, profiles: profiles}
}

// Overlay positions every entry of the subject's history on its reference curve.
// Observations before birth keep their negative age and are flagged.
func (s *GrowthService) Overlay(ctx context.Context, kind string, subjectID string, actor models.Actor) (*GrowthOverlay, error) {
	metric := growth.ParseMetric(kind)
	if !growth.HasCurve(metric) {
		return nil, types.Validation("kind", "weight|height|head-circumference", "no reference curve for %q", kind)
	}

	history, err := s.metrics.GetHistory(ctx, kind, subjectID, actor)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.Get(ctx, actor, subjectID)
	if err != nil {
		return nil, err
	}

	dob := profile.Birth()
	overlay := &GrowthOverlay{
		SubjectID:   subjectID,
		Kind:        history.Kind,
		Unit:        history.Unit,
		Gender:      profile.Gender,
		DateOfBirth: dob.Format(types.DateLayout),
		Version:     history.Version,
		Points:      make([]GrowthPoint, 0, len(history.Entries)),
	}
	for _, e := range history.Entries {
		age := growth.AgeInMonths(dob, e.DateRecorded)
		point := GrowthPoint{
			MetricEntry: e,
			AgeMonths:   growth.Round(age, 2),
			BeforeBirth: growth.BeforeBirth(dob, e.DateRecorded),
		}
		if p, ok := growth.Interpolate(age, growth.Gender(profile.Gender), metric); ok {
			rounded := growth.RoundPercentiles(p, 2)
			point.Percentiles = &rounded
		}
		overlay.Points = append(overlay.Points, point)
	}
	return overlay, nil
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
