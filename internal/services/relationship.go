// relationship.go
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

	"github.com/google/uuid"
	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/hints"
)

var connectionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "growthdb",
	Name:      "connection_transitions_total",
	Help:      "Connection state changes, by transition.",
}, []string{"transition"})

// PendingConnections splits pending connections by direction relative to the actor.
type PendingConnections struct {
	Incoming []models.Connection `json:"incoming"`
	Outgoing []models.Connection `json:"outgoing"`
}

// RelationshipGraph owns parent/provider connections and answers access checks.
type RelationshipGraph struct {
	db     *gorm.DB
	users  *UserService
	notify *Dispatcher
	log    zerolog.Logger
}

func NewRelationshipGraph(db *gorm.DB, users *UserService, notify *Dispatcher, log zerolog.Logger) *RelationshipGraph {
	return &RelationshipGraph{
		db:     db,
		users:  users,
		notify: notify,
		log:    log.With().Str("component", "relationships").Logger(),
	}
}

// SendRequest creates a pending connection from a parent to a provider.
func (g *RelationshipGraph) SendRequest(ctx context.Context, actor models.Actor, providerID string) (*models.Connection, error) {
	if actor.IsProvider() {
		return nil, types.Forbidden("providers add parents directly instead of sending requests")
	}
	from, to, err := g.endpoints(ctx, actor, providerID, models.RoleProvider)
	if err != nil {
		return nil, err
	}

	conn, err := g.create(ctx, from, to, models.ConnectionPending)
	if err != nil {
		return nil, err
	}
	connectionTransitions.WithLabelValues("requested").Inc()

	g.notify.Send(ctx, NotificationInput{
		RecipientID: to.UserID,
		Kind:        models.NotifyConnectionRequest,
		Message:     fmt.Sprintf("%s sent you a connection request", from.DisplayName()),
		Link:        "/connections/pending",
		TriggeredBy: from.UserID,
		Payload:     map[string]any{"connectionId": conn.ConnectionID},
	})
	return conn, nil
}

// AddDirect creates an accepted connection from a provider to a parent.
func (g *RelationshipGraph) AddDirect(ctx context.Context, actor models.Actor, parentID string) (*models.Connection, error) {
	if !actor.IsProvider() {
		return nil, types.Forbidden("only providers can add connections directly")
	}
	from, to, err := g.endpoints(ctx, actor, parentID, models.RoleParent)
	if err != nil {
		return nil, err
	}

	conn, err := g.create(ctx, from, to, models.ConnectionAccepted)
	if err != nil {
		return nil, err
	}
	connectionTransitions.WithLabelValues("added").Inc()

	g.notify.Send(ctx, NotificationInput{
		RecipientID: to.UserID,
		Kind:        models.NotifyConnectionAdded,
		Message:     fmt.Sprintf("%s added you as a connection", from.DisplayName()),
		Link:        "/connections",
		TriggeredBy: from.UserID,
		Payload:     map[string]any{"connectionId": conn.ConnectionID},
	})
	return conn, nil
}

// Accept moves a pending request to accepted. Only the receiving provider may accept.
func (g *RelationshipGraph) Accept(ctx context.Context, connectionID string, actor models.Actor) (*models.Connection, error) {
	var conn models.Connection
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findConnection(tx, connectionID)
		if err != nil {
			return err
		}
		conn = found

		if !actor.IsProvider() || conn.ToID != actor.ID {
			return types.Forbidden("only the receiving provider can accept this request")
		}
		if conn.Status != models.ConnectionPending {
			return types.InvalidState("connection %s is already %s", conn.ConnectionID, conn.Status)
		}

		result := tx.Model(&models.Connection{}).
			Where("connection_id = ? AND status = ?", conn.ConnectionID, models.ConnectionPending).
			Update("status", models.ConnectionAccepted)
		if result.Error != nil {
			return fmt.Errorf("accept connection: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return types.InvalidState("connection %s is no longer pending", conn.ConnectionID)
		}
		conn.Status = models.ConnectionAccepted
		return nil
	})
	if err != nil {
		return nil, err
	}
	connectionTransitions.WithLabelValues("accepted").Inc()

	g.notify.Send(ctx, NotificationInput{
		RecipientID: conn.FromID,
		Kind:        models.NotifyConnectionAccepted,
		Message:     fmt.Sprintf("%s accepted your connection request", conn.ToName),
		Link:        "/connections",
		TriggeredBy: actor.ID,
		Payload:     map[string]any{"connectionId": conn.ConnectionID},
	})
	return &conn, nil
}

// DeletePending withdraws (sender) or declines (receiving provider) a pending request.
func (g *RelationshipGraph) DeletePending(ctx context.Context, connectionID string, actor models.Actor) error {
	conn, err := g.remove(ctx, connectionID, models.ConnectionPending, func(c models.Connection) bool {
		return c.FromID == actor.ID || (actor.IsProvider() && c.ToID == actor.ID)
	})
	if err != nil {
		return err
	}
	connectionTransitions.WithLabelValues("pending_removed").Inc()

	g.log.Debug().Str("connection", conn.ConnectionID).Str("actor", actor.ID).Msg("pending connection removed")
	return nil
}

// DeleteAccepted removes an accepted connection. Only the provider endpoint may remove it.
func (g *RelationshipGraph) DeleteAccepted(ctx context.Context, connectionID string, actor models.Actor) error {
	conn, err := g.remove(ctx, connectionID, models.ConnectionAccepted, func(c models.Connection) bool {
		return actor.IsProvider() && c.Involves(actor.ID)
	})
	if err != nil {
		return err
	}
	connectionTransitions.WithLabelValues("removed").Inc()

	other := conn.Other(actor.ID)
	g.notify.Send(ctx, NotificationInput{
		RecipientID: other,
		Kind:        models.NotifyConnectionRemoved,
		Message:     fmt.Sprintf("%s removed your connection", endpointName(conn, actor.ID)),
		Link:        "/connections",
		TriggeredBy: actor.ID,
		Payload:     map[string]any{"connectionId": conn.ConnectionID},
	})
	return nil
}

// IsAuthorized reports whether actor may read or write subjectID's records.
// Every call consults storage, so a removed connection revokes access at once.
func (g *RelationshipGraph) IsAuthorized(ctx context.Context, actor models.Actor, subjectID string) (bool, error) {
	if actor.ID == "" || subjectID == "" {
		return false, nil
	}
	if !actor.IsProvider() {
		return actor.ID == subjectID, nil
	}
	if actor.ID == subjectID {
		return false, nil
	}

	var count int64
	err := g.db.WithContext(ctx).
		Clauses(hints.CommentBefore("select", "growthdb:authorize")).
		Model(&models.Connection{}).
		Where("status = ?", models.ConnectionAccepted).
		Where("(from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)", actor.ID, subjectID, subjectID, actor.ID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("authorize %s for %s: %w", actor.ID, subjectID, err)
	}
	return count > 0, nil
}

// Authorize is IsAuthorized returning AccessDenied on refusal.
func (g *RelationshipGraph) Authorize(ctx context.Context, actor models.Actor, subjectID string) error {
	ok, err := g.IsAuthorized(ctx, actor, subjectID)
	if err != nil {
		return err
	}
	if !ok {
		return types.AccessDenied("%s may not access records of %s", actor.ID, subjectID)
	}
	return nil
}

// ListConnections returns the actor's accepted connections in either direction.
func (g *RelationshipGraph) ListConnections(ctx context.Context, actor models.Actor) ([]models.Connection, error) {
	out := []models.Connection{}
	err := g.db.WithContext(ctx).
		Where("status = ?", models.ConnectionAccepted).
		Where("from_id = ? OR to_id = ?", actor.ID, actor.ID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return out, nil
}

// ListPending returns pending requests the actor sent or received.
func (g *RelationshipGraph) ListPending(ctx context.Context, actor models.Actor) (PendingConnections, error) {
	var rows []models.Connection
	err := g.db.WithContext(ctx).
		Where("status = ?", models.ConnectionPending).
		Where("from_id = ? OR to_id = ?", actor.ID, actor.ID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return PendingConnections{}, fmt.Errorf("list pending connections: %w", err)
	}

	pending := PendingConnections{Incoming: []models.Connection{}, Outgoing: []models.Connection{}}
	for _, c := range rows {
		if c.ToID == actor.ID {
			pending.Incoming = append(pending.Incoming, c)
		} else {
			pending.Outgoing = append(pending.Outgoing, c)
		}
	}
	return pending, nil
}

// ConnectedSubjects returns the distinct subject ids a provider is connected to.
func (g *RelationshipGraph) ConnectedSubjects(ctx context.Context, provider models.Actor) ([]string, error) {
	if !provider.IsProvider() {
		return nil, types.Forbidden("only providers have connected subjects")
	}
	conns, err := g.ListConnections(ctx, provider)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(conns))
	ids := make([]string, 0, len(conns))
	for _, c := range conns {
		id := c.Other(provider.ID)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// endpoints resolves both users of a new connection and checks the target's role.
func (g *RelationshipGraph) endpoints(ctx context.Context, actor models.Actor, targetID string, want models.Role) (models.User, models.User, error) {
	if targetID == "" {
		return models.User{}, models.User{}, types.Validation("targetId", "non-empty", "a target user is required")
	}
	if targetID == actor.ID {
		return models.User{}, models.User{}, types.Validation("targetId", "!= actor", "cannot connect to yourself")
	}

	from, err := g.users.Ensure(ctx, actor)
	if err != nil {
		return models.User{}, models.User{}, err
	}
	to, err := g.users.Get(ctx, targetID)
	if err != nil {
		return models.User{}, models.User{}, err
	}
	if to.Role != want {
		return models.User{}, models.User{}, types.Forbidden("user %s is not a %s", targetID, want)
	}
	return from, to, nil
}

// create inserts a connection, refusing a second one for the same ordered pair.
func (g *RelationshipGraph) create(ctx context.Context, from, to models.User, status models.ConnectionStatus) (*models.Connection, error) {
	conn := models.Connection{
		ConnectionID: uuid.NewString(),
		FromID:       from.UserID,
		FromName:     from.DisplayName(),
		ToID:         to.UserID,
		ToName:       to.DisplayName(),
		Status:       status,
	}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Connection{}).
			Where("from_id = ? AND to_id = ?", from.UserID, to.UserID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check existing connection: %w", err)
		}
		if existing > 0 {
			return duplicateConnection(from.UserID, to.UserID)
		}
		return tx.Create(&conn).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateConnection(from.UserID, to.UserID)
		}
		if _, ok := types.AsCustom(err); ok {
			return nil, err
		}
		// Some drivers surface the unique violation untranslated.
		if exists, checkErr := g.pairExists(ctx, from.UserID, to.UserID); checkErr == nil && exists {
			return nil, duplicateConnection(from.UserID, to.UserID)
		}
		return nil, fmt.Errorf("create connection: %w", err)
	}

	g.log.Info().
		Str("connection", conn.ConnectionID).
		Str("from", conn.FromID).
		Str("to", conn.ToID).
		Str("status", string(conn.Status)).
		Msg("connection created")
	return &conn, nil
}

func (g *RelationshipGraph) pairExists(ctx context.Context, fromID, toID string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.Connection{}).
		Where("from_id = ? AND to_id = ?", fromID, toID).
		Count(&count).Error
	return count > 0, err
}

// remove deletes a connection in the given state when allowed(conn) holds.
func (g *RelationshipGraph) remove(ctx context.Context, connectionID string, status models.ConnectionStatus, allowed func(models.Connection) bool) (models.Connection, error) {
	var conn models.Connection
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findConnection(tx, connectionID)
		if err != nil {
			return err
		}
		conn = found

		if conn.Status != status {
			return types.InvalidState("connection %s is %s, not %s", conn.ConnectionID, conn.Status, status)
		}
		if !allowed(conn) {
			return types.Forbidden("not allowed to remove connection %s", conn.ConnectionID)
		}

		result := tx.Where("connection_id = ? AND status = ?", conn.ConnectionID, status).Delete(&models.Connection{})
		if result.Error != nil {
			return fmt.Errorf("delete connection: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return types.InvalidState("connection %s changed state", conn.ConnectionID)
		}
		return nil
	})
	return conn, err
}

func findConnection(tx *gorm.DB, connectionID string) (models.Connection, error) {
	var conn models.Connection
	err := tx.Where("connection_id = ?", connectionID).First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return conn, types.NotFound("connection %s not found", connectionID)
		}
		return conn, fmt.Errorf("find connection: %w", err)
	}
	return conn, nil
}

func endpointName(c models.Connection, id string) string {
	if c.FromID == id {
		return c.FromName
	}
	return c.ToName
}

func duplicateConnection(fromID, toID string) error {
	return types.DuplicateConnection("a connection from %s to %s already exists", fromID, toID)
}
