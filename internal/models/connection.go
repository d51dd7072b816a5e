package models

import "time"

// ConnectionStatus is the lifecycle state of a Connection.
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
)

// Connection is a directed request or grant between two identities.
// The (from_id, to_id) pair is unique.
type Connection struct {
	ConnectionID string           `gorm:"primaryKey;size:36" json:"id"`
	FromID       string           `gorm:"size:64;not null;uniqueIndex:idx_connection_pair;index" json:"from"`
	FromName     string           `gorm:"size:255" json:"fromName"`
	ToID         string           `gorm:"size:64;not null;uniqueIndex:idx_connection_pair;index" json:"to"`
	ToName       string           `gorm:"size:255" json:"toName"`
	Status       ConnectionStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// TableName overrides the table name for Connection
func (Connection) TableName() string {
	return "connections"
}

// Involves reports whether id is either endpoint.
func (c Connection) Involves(id string) bool {
	return c.FromID == id || c.ToID == id
}

// Other returns the endpoint opposite to id.
func (c Connection) Other(id string) string {
	if c.FromID == id {
		return c.ToID
	}
	return c.FromID
}
