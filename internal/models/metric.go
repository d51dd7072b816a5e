// metric.go
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

package models

import "time"

// MetricKind names a tracked per-subject time series.
type MetricKind string

const (
	MetricWeight            MetricKind = "weight"
	MetricHeight            MetricKind = "height"
	MetricHeadCircumference MetricKind = "head-circumference"
	MetricBreastfeeding     MetricKind = "breastfeeding"
)

// Breastfeeding sides
const (
	SideLeft  = "left"
	SideRight = "right"
	SideBoth  = "both"
)

// MetricDocument is the per (subject, kind) series header. Entries are rows
// in metric_entries so that appends never rewrite the document.
type MetricDocument struct {
	DocumentID      uint64        `gorm:"primaryKey;autoIncrement"`
	SubjectID       string        `gorm:"size:64;not null;index:idx_subject_metric,unique"`
	Kind            MetricKind    `gorm:"size:32;not null;index:idx_subject_metric,unique"`
	DocumentVersion uint64        `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Entries         []MetricEntry `gorm:"foreignKey:DocumentID;references:DocumentID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name for MetricDocument
func (MetricDocument) TableName() string {
	return "metric_documents"
}

// MetricEntry is a single dated observation. Value holds the scalar
// measurement, or the duration in minutes for breastfeeding.
type MetricEntry struct {
	EntryID      string     `gorm:"primaryKey;size:36" json:"id"`
	DocumentID   uint64     `gorm:"not null;index" json:"-"`
	SubjectID    string     `gorm:"size:64;not null;index:idx_entry_series" json:"subjectId"`
	Kind         MetricKind `gorm:"size:32;not null;index:idx_entry_series" json:"kind"`
	Value        float64    `gorm:"not null" json:"value"`
	Side         string     `gorm:"size:8" json:"side,omitempty"`
	DateRecorded time.Time  `gorm:"not null;index:idx_entry_series" json:"dateRecorded"`
	RecordedBy   string     `gorm:"size:64;not null;index" json:"recordedBy"`
	Notes        string     `gorm:"size:1024" json:"notes,omitempty"`
	Revision     uint64     `gorm:"not null;default:0" json:"revision"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TableName overrides the table name for MetricEntry
func (MetricEntry) TableName() string {
	return "metric_entries"
}
