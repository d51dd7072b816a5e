// metrics.go
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
	"slices"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/types"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// maxRevisionAttempts bounds optimistic retries of a single entry update.
const maxRevisionAttempts = 3

var errRevisionConflict = errors.New("entry revision changed")

// EntryInput carries the fields of a new entry or a partial update.
// Nil fields are absent.
type EntryInput struct {
	Value        *float64
	Side         *string
	DateRecorded *time.Time
	Notes        *string
}

func (in EntryInput) empty() bool {
	return in.Value == nil && in.Side == nil && in.DateRecorded == nil && in.Notes == nil
}

// History is a subject's metric document with its entries sorted by date.
type History struct {
	SubjectID string               `json:"subjectId"`
	Kind      models.MetricKind    `json:"kind"`
	Unit      string               `json:"unit"`
	Version   uint64               `json:"__version"`
	Entries   []models.MetricEntry `json:"entries"`
}

// EntryResult is a written entry and where it landed in the sorted history.
type EntryResult struct {
	Entry    models.MetricEntry `json:"entry"`
	Position int                `json:"position"`
	Version  uint64             `json:"__version"`
}

// ConnectedSubject is a subject reachable by a provider through an accepted connection.
type ConnectedSubject struct {
	SubjectID string `json:"subjectId"`
	Name      string `json:"name"`
	ChildName string `json:"childName,omitempty"`
}

// MetricStore keeps per-subject time series for every metric kind.
// Entries are stored as rows and appended with a single insert; order is
// applied when reading, so concurrent writers never overwrite each other.
type MetricStore struct {
	db       *gorm.DB
	graph    *RelationshipGraph
	users    *UserService
	notify   *Dispatcher
	log      zerolog.Logger
	notesMax int
}

func NewMetricStore(db *gorm.DB, graph *RelationshipGraph, users *UserService, notify *Dispatcher, log zerolog.Logger, notesMax int) *MetricStore {
	return &MetricStore{
		db:       db,
		graph:    graph,
		users:    users,
		notify:   notify,
		log:      log.With().Str("component", "metrics").Logger(),
		notesMax: notesMax,
	}
}

// AddEntry appends an entry authored by actor to the subject's series.
func (s *MetricStore) AddEntry(ctx context.Context, kind string, subjectID string, actor models.Actor, in EntryInput) (*EntryResult, error) {
	ks, err := LookupKind(kind)
	if err != nil {
		return nil, err
	}
	if err := s.graph.Authorize(ctx, actor, subjectID); err != nil {
		return nil, err
	}

	entry := models.MetricEntry{
		EntryID:    uuid.NewString(),
		SubjectID:  subjectID,
		Kind:       ks.Kind,
		RecordedBy: actor.ID,
	}
	if in.Value == nil {
		return nil, types.Validation("value", ks.Bound(), "a %s value is required", ks.Kind)
	}
	if err := s.applyInput(ks, &entry, in); err != nil {
		return nil, err
	}
	if in.DateRecorded == nil {
		entry.DateRecorded = time.Now().UTC()
	}

	var result EntryResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err := ensureDocument(tx, subjectID, ks.Kind)
		if err != nil {
			return err
		}
		entry.DocumentID = doc.DocumentID
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("append %s entry: %w", ks.Kind, err)
		}
		return s.finishWrite(tx, doc.DocumentID, ks.Kind, subjectID, entry.EntryID, &result)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("kind", string(ks.Kind)).
		Str("subject", subjectID).
		Str("actor", actor.ID).
		Str("entry", entry.EntryID).
		Msg("entry added")

	s.notifyProviderWrite(ctx, actor, subjectID, ks, models.NotifyMetricRecorded, "recorded a new")
	return &result, nil
}

// GetHistory returns the subject's series. A subject with no document yet
// gets an empty history.
func (s *MetricStore) GetHistory(ctx context.Context, kind string, subjectID string, actor models.Actor) (*History, error) {
	ks, err := LookupKind(kind)
	if err != nil {
		return nil, err
	}
	if err := s.graph.Authorize(ctx, actor, subjectID); err != nil {
		return nil, err
	}

	history := &History{SubjectID: subjectID, Kind: ks.Kind, Unit: ks.Unit, Entries: []models.MetricEntry{}}

	var doc models.MetricDocument
	err = s.db.WithContext(ctx).
		Where("subject_id = ? AND kind = ?", subjectID, ks.Kind).
		Limit(1).
		Find(&doc).Error
	if err != nil {
		return nil, fmt.Errorf("load %s document: %w", ks.Kind, err)
	}
	if doc.DocumentID == 0 {
		return history, nil
	}

	entries, err := loadEntries(s.db.WithContext(ctx), doc.DocumentID)
	if err != nil {
		return nil, err
	}
	history.Version = doc.DocumentVersion
	history.Entries = entries

	if actor.IsProvider() {
		s.log.Info().Str("kind", string(ks.Kind)).Str("subject", subjectID).Str("provider", actor.ID).Msg("history read")
	}
	return history, nil
}

// UpdateEntry applies the present fields of patch to an entry the actor authored.
func (s *MetricStore) UpdateEntry(ctx context.Context, kind string, subjectID, entryID string, actor models.Actor, patch EntryInput) (*EntryResult, error) {
	ks, err := LookupKind(kind)
	if err != nil {
		return nil, err
	}
	if err := s.graph.Authorize(ctx, actor, subjectID); err != nil {
		return nil, err
	}
	if patch.empty() {
		return nil, types.Validation("patch", "at least one field", "nothing to update")
	}

	var result EntryResult
	for attempt := 1; ; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			entry, err := findEntry(tx, ks.Kind, subjectID, entryID)
			if err != nil {
				return err
			}
			if entry.RecordedBy != actor.ID {
				return types.Forbidden("entry %s was recorded by another user", entryID)
			}
			if err := s.applyInput(ks, &entry, patch); err != nil {
				return err
			}

			updated := tx.Model(&models.MetricEntry{}).
				Where("entry_id = ? AND revision = ?", entry.EntryID, entry.Revision).
				Updates(map[string]any{
					"value":         entry.Value,
					"side":          entry.Side,
					"date_recorded": entry.DateRecorded,
					"notes":         entry.Notes,
					"revision":      entry.Revision + 1,
				})
			if updated.Error != nil {
				return fmt.Errorf("update %s entry: %w", ks.Kind, updated.Error)
			}
			if updated.RowsAffected == 0 {
				return errRevisionConflict
			}
			return s.finishWrite(tx, entry.DocumentID, ks.Kind, subjectID, entry.EntryID, &result)
		})
		if !errors.Is(err, errRevisionConflict) {
			break
		}
		if attempt >= maxRevisionAttempts {
			return nil, types.InvalidState("entry %s is being modified concurrently, try again", entryID)
		}
		s.log.Debug().Str("entry", entryID).Int("attempt", attempt).Msg("entry revision conflict, retrying")
	}
	if err != nil {
		return nil, err
	}

	s.notifyProviderWrite(ctx, actor, subjectID, ks, models.NotifyMetricUpdated, "updated a")
	return &result, nil
}

// DeleteEntry removes an entry the actor authored and returns the new document version.
func (s *MetricStore) DeleteEntry(ctx context.Context, kind string, subjectID, entryID string, actor models.Actor) (uint64, error) {
	ks, err := LookupKind(kind)
	if err != nil {
		return 0, err
	}
	if err := s.graph.Authorize(ctx, actor, subjectID); err != nil {
		return 0, err
	}

	var version uint64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := findEntry(tx, ks.Kind, subjectID, entryID)
		if err != nil {
			return err
		}
		if entry.RecordedBy != actor.ID {
			return types.Forbidden("entry %s was recorded by another user", entryID)
		}

		deleted := tx.Where("entry_id = ?", entry.EntryID).Delete(&models.MetricEntry{})
		if deleted.Error != nil {
			return fmt.Errorf("delete %s entry: %w", ks.Kind, deleted.Error)
		}
		if deleted.RowsAffected == 0 {
			return types.NotFound("entry %s not found", entryID)
		}
		version, err = bumpVersion(tx, entry.DocumentID)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.notifyProviderWrite(ctx, actor, subjectID, ks, models.NotifyMetricDeleted, "deleted a")
	return version, nil
}

// ListConnectedSubjects returns the distinct subjects a provider may access.
func (s *MetricStore) ListConnectedSubjects(ctx context.Context, provider models.Actor) ([]ConnectedSubject, error) {
	ids, err := s.graph.ConnectedSubjects(ctx, provider)
	if err != nil {
		return nil, err
	}
	out := make([]ConnectedSubject, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	names, err := s.users.Names(ctx, ids)
	if err != nil {
		return nil, err
	}
	var profiles []models.ChildProfile
	if err := s.db.WithContext(ctx).Where("subject_id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("load child profiles: %w", err)
	}
	childNames := make(map[string]string, len(profiles))
	for _, p := range profiles {
		childNames[p.SubjectID] = p.ChildName
	}

	for _, id := range ids {
		out = append(out, ConnectedSubject{SubjectID: id, Name: names[id], ChildName: childNames[id]})
	}
	return out, nil
}

// applyInput copies the present fields of in onto entry and validates the result.
func (s *MetricStore) applyInput(ks KindRule, entry *models.MetricEntry, in EntryInput) error {
	if in.Value != nil {
		entry.Value = *in.Value
	}
	if in.Side != nil {
		entry.Side = *in.Side
	}
	if in.DateRecorded != nil {
		if in.DateRecorded.IsZero() {
			return types.Validation("dateRecorded", "RFC3339 or YYYY-MM-DD", "dateRecorded is invalid")
		}
		entry.DateRecorded = in.DateRecorded.UTC()
	}
	if in.Notes != nil {
		entry.Notes = *in.Notes
	}

	if err := ks.validateValue(entry.Value); err != nil {
		return err
	}
	side, err := ks.normalizeSide(entry.Side)
	if err != nil {
		return err
	}
	entry.Side = side
	if utf8.RuneCountInString(entry.Notes) > s.notesMax {
		return types.Validation("notes", fmt.Sprintf("<= %d characters", s.notesMax), "notes are too long")
	}
	return nil
}

// finishWrite bumps the document version and locates entryID in the sorted series.
func (s *MetricStore) finishWrite(tx *gorm.DB, documentID uint64, kind models.MetricKind, subjectID, entryID string, result *EntryResult) error {
	version, err := bumpVersion(tx, documentID)
	if err != nil {
		return err
	}
	entries, err := loadEntries(tx, documentID)
	if err != nil {
		return err
	}
	pos := slices.IndexFunc(entries, func(e models.MetricEntry) bool { return e.EntryID == entryID })
	if pos < 0 {
		return fmt.Errorf("%s entry %s for %s missing after write", kind, entryID, subjectID)
	}
	*result = EntryResult{Entry: entries[pos], Position: pos, Version: version}
	return nil
}

func (s *MetricStore) notifyProviderWrite(ctx context.Context, actor models.Actor, subjectID string, ks KindRule, kind, verb string) {
	if !actor.IsProvider() {
		return
	}
	name := actor.Name
	if name == "" {
		if u, err := s.users.Get(ctx, actor.ID); err == nil {
			name = u.DisplayName()
		} else {
			name = actor.ID
		}
	}
	s.notify.Send(ctx, NotificationInput{
		RecipientID: subjectID,
		Kind:        kind,
		Message:     fmt.Sprintf("%s %s %s entry", name, verb, ks.Kind),
		Link:        fmt.Sprintf("/metrics/%s/%s", ks.Kind, subjectID),
		TriggeredBy: actor.ID,
		Payload:     map[string]any{"kind": ks.Kind},
	})
}

// ensureDocument creates the (subject, kind) document if missing and returns it.
func ensureDocument(tx *gorm.DB, subjectID string, kind models.MetricKind) (models.MetricDocument, error) {
	doc := models.MetricDocument{SubjectID: subjectID, Kind: kind}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject_id"}, {Name: "kind"}},
		DoNothing: true,
	}).Create(&doc).Error
	if err != nil {
		return doc, fmt.Errorf("create %s document: %w", kind, err)
	}

	var stored models.MetricDocument
	if err := tx.Where("subject_id = ? AND kind = ?", subjectID, kind).First(&stored).Error; err != nil {
		return stored, fmt.Errorf("load %s document: %w", kind, err)
	}
	return stored, nil
}

func bumpVersion(tx *gorm.DB, documentID uint64) (uint64, error) {
	err := tx.Model(&models.MetricDocument{}).
		Where("document_id = ?", documentID).
		Updates(map[string]any{"document_version": gorm.Expr("document_version + 1")}).Error
	if err != nil {
		return 0, fmt.Errorf("bump document version: %w", err)
	}
	var doc models.MetricDocument
	if err := tx.Select("document_version").Where("document_id = ?", documentID).First(&doc).Error; err != nil {
		return 0, fmt.Errorf("read document version: %w", err)
	}
	return doc.DocumentVersion, nil
}

func findEntry(tx *gorm.DB, kind models.MetricKind, subjectID, entryID string) (models.MetricEntry, error) {
	var entry models.MetricEntry
	err := tx.Where("entry_id = ? AND subject_id = ? AND kind = ?", entryID, subjectID, kind).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entry, types.NotFound("%s entry %s not found", kind, entryID)
		}
		return entry, fmt.Errorf("find %s entry: %w", kind, err)
	}
	return entry, nil
}

// loadEntries returns a document's entries ordered by date, then insertion.
func loadEntries(db *gorm.DB, documentID uint64) ([]models.MetricEntry, error) {
	entries := []models.MetricEntry{}
	err := db.Clauses(hints.CommentBefore("select", "growthdb:history")).
		Where("document_id = ?", documentID).
		Order("date_recorded ASC, created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	sortEntries(entries)
	return entries, nil
}

// sortEntries orders by time value, independent of how a driver encodes timestamps.
func sortEntries(entries []models.MetricEntry) {
	slices.SortStableFunc(entries, func(a, b models.MetricEntry) int {
		if c := a.DateRecorded.Compare(b.DateRecorded); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}
