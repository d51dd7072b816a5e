// relationship_test.go
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
	"testing"

	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRequestCreatesPendingAndNotifies(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA, providerX)

	conn, err := svc.Graph.SendRequest(ctx, parentA, providerX.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionPending, conn.Status)
	assert.Equal(t, parentA.ID, conn.FromID)
	assert.Equal(t, "Alice", conn.FromName)
	assert.Equal(t, "Dr. Xu", conn.ToName)

	inbox, err := svc.Notifications.List(ctx, providerX, true, 10)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotifyConnectionRequest, inbox[0].Kind)
	assert.Equal(t, parentA.ID, inbox[0].TriggeredBy)

	ok, err := svc.Graph.IsAuthorized(ctx, providerX, parentA.ID)
	require.NoError(t, err)
	assert.False(t, ok, "pending connections grant nothing")
}

func TestSendRequestDuplicate(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA, providerX)

	_, err := svc.Graph.SendRequest(ctx, parentA, providerX.ID)
	require.NoError(t, err)
	_, err = svc.Graph.SendRequest(ctx, parentA, providerX.ID)
	assertKind(t, err, types.KindDuplicateConnection)

	pending, err := svc.Graph.ListPending(ctx, providerX)
	require.NoError(t, err)
	assert.Len(t, pending.Incoming, 1)
	assert.Empty(t, pending.Outgoing)
}

func TestSendRequestRejections(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA, parentB, providerX, providerY)

	_, err := svc.Graph.SendRequest(ctx, providerX, providerY.ID)
	assertKind(t, err, types.KindForbidden)

	_, err = svc.Graph.SendRequest(ctx, parentA, "nobody")
	assertKind(t, err, types.KindNotFound)

	_, err = svc.Graph.SendRequest(ctx, parentA, parentB.ID)
	assertKind(t, err, types.KindForbidden)

	_, err = svc.Graph.SendRequest(ctx, parentA, parentA.ID)
	assertKind(t, err, types.KindValidation)

	_, err = svc.Graph.SendRequest(ctx, parentA, "")
	assertKind(t, err, types.KindValidation)
}

func TestAcceptLifecycle(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA, providerX, providerY)

	conn, err := svc.Graph.SendRequest(ctx, parentA, providerX.ID)
	require.NoError(t, err)

	_, err = svc.Graph.Accept(ctx, "missing", providerX)
	assertKind(t, err, types.KindNotFound)

	_, err = svc.Graph.Accept(ctx, conn.ConnectionID, parentA)
	assertKind(t, err, types.KindForbidden)

	_, err = svc.Graph.Accept(ctx, conn.ConnectionID, providerY)
	assertKind(t, err, types.KindForbidden)

	accepted, err := svc.Graph.Accept(ctx, conn.ConnectionID, providerX)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionAccepted, accepted.Status)

	_, err = svc.Graph.Accept(ctx, conn.ConnectionID, providerX)
	assertKind(t, err, types.KindInvalidState)

	inbox, err := svc.Notifications.List(ctx, parentA, false, 10)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotifyConnectionAccepted, inbox[0].Kind)
}

func TestAuthorizationFollowsConnection(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA, parentB, providerX)

	assertKind(t, svc.Graph.Authorize(ctx, providerX, parentA.ID), types.KindAccessDenied)

	conn := connect(t, svc, parentA, providerX)
	require.NoError(t, svc.Graph.Authorize(ctx, providerX, parentA.ID))
	assertKind(t, svc.Graph.Authorize(ctx, providerX, parentB.ID), types.KindAccessDenied)

	// parents only ever see themselves
	require.NoError(t, svc.Graph.Authorize(ctx, parentA, parentA.ID))
	assertKind(t, svc.Graph.Authorize(ctx, parentA, parentB.ID), types.KindAccessDenied)
	assertKind(t, svc.Graph.Authorize(ctx, parentA, providerX.ID), types.KindAccessDenied)

	require.NoError(t, svc.Graph.DeleteAccepted(ctx, conn.ConnectionID, providerX))
	assertKind(t, svc.Graph.Authorize(ctx, providerX, parentA.ID), types.KindAccessDenied)

	inbox, err := svc.Notifications.List(ctx, parentA, false, 10)
	require.NoError(t, err)
	kinds := make([]string, 0, len(inbox))
	for _, n := range inbox {
		kinds = append(kinds, n.Kind)
	}
	assert.Contains(t, kinds, models.NotifyConnectionRemoved)
}

func TestDeletePending(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA, parentB, providerX, providerY)

	first, err := svc.Graph.SendRequest(ctx, parentA, providerX.ID)
	require.NoError(t, err)
	second, err := svc.Graph.SendRequest(ctx, parentA, providerY.ID)
	require.NoError(t, err)

	assertKind(t, svc.Graph.DeletePending(ctx, first.ConnectionID, parentB), types.KindForbidden)
	assertKind(t, svc.Graph.DeletePending(ctx, first.ConnectionID, providerY), types.KindForbidden)

	// the sender withdraws, the receiving provider declines
	require.NoError(t, svc.Graph.DeletePending(ctx, first.ConnectionID, parentA))
	require.NoError(t, svc.Graph.DeletePending(ctx, second.ConnectionID, providerY))
	assertKind(t, svc.Graph.DeletePending(ctx, first.ConnectionID, parentA), types.KindNotFound)

	pending, err := svc.Graph.ListPending(ctx, parentA)
	require.NoError(t, err)
	assert.Empty(t, pending.Outgoing)

	// a withdrawn request can be sent again
	_, err = svc.Graph.SendRequest(ctx, parentA, providerX.ID)
	require.NoError(t, err)
}

func TestDeleteWrongState(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA, parentB, providerX)

	accepted := connect(t, svc, parentA, providerX)
	assertKind(t, svc.Graph.DeletePending(ctx, accepted.ConnectionID, parentA), types.KindInvalidState)
	assertKind(t, svc.Graph.DeleteAccepted(ctx, accepted.ConnectionID, parentA), types.KindForbidden)

	pending, err := svc.Graph.SendRequest(ctx, parentB, providerX.ID)
	require.NoError(t, err)
	assertKind(t, svc.Graph.DeleteAccepted(ctx, pending.ConnectionID, providerX), types.KindInvalidState)
	assertKind(t, svc.Graph.DeleteAccepted(ctx, "missing", providerX), types.KindNotFound)
}

func TestAddDirect(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA, providerX, providerY)

	_, err := svc.Graph.AddDirect(ctx, parentA, providerX.ID)
	assertKind(t, err, types.KindForbidden)

	_, err = svc.Graph.AddDirect(ctx, providerX, providerY.ID)
	assertKind(t, err, types.KindForbidden)

	conn, err := svc.Graph.AddDirect(ctx, providerX, parentA.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionAccepted, conn.Status)
	assert.Equal(t, providerX.ID, conn.FromID)
	require.NoError(t, svc.Graph.Authorize(ctx, providerX, parentA.ID))

	_, err = svc.Graph.AddDirect(ctx, providerX, parentA.ID)
	assertKind(t, err, types.KindDuplicateConnection)

	inbox, err := svc.Notifications.List(ctx, parentA, false, 10)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotifyConnectionAdded, inbox[0].Kind)

	// the parent cannot drop a connection, the provider can
	assertKind(t, svc.Graph.DeleteAccepted(ctx, conn.ConnectionID, parentA), types.KindForbidden)
	require.NoError(t, svc.Graph.DeleteAccepted(ctx, conn.ConnectionID, providerX))
}

func TestConnectedSubjectsDeduplicated(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA, parentB, providerX)

	connect(t, svc, parentA, providerX)
	_, err := svc.Graph.AddDirect(ctx, providerX, parentA.ID)
	require.NoError(t, err)
	_, err = svc.Graph.AddDirect(ctx, providerX, parentB.ID)
	require.NoError(t, err)

	conns, err := svc.Graph.ListConnections(ctx, providerX)
	require.NoError(t, err)
	assert.Len(t, conns, 3)

	subjects, err := svc.Graph.ConnectedSubjects(ctx, providerX)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{parentA.ID, parentB.ID}, subjects)

	_, err = svc.Graph.ConnectedSubjects(ctx, parentA)
	assertKind(t, err, types.KindForbidden)

	mine, err := svc.Graph.ListConnections(ctx, parentB)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, providerX.ID, mine[0].Other(parentB.ID))
}

func TestListConnectionsAndPending(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA, parentB, providerX)

	accepted := connect(t, svc, parentA, providerX)
	pending, err := svc.Graph.SendRequest(ctx, parentB, providerX.ID)
	require.NoError(t, err)

	conns, err := svc.Graph.ListConnections(ctx, providerX)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, accepted.ConnectionID, conns[0].ConnectionID)

	conns, err = svc.Graph.ListConnections(ctx, parentB)
	require.NoError(t, err)
	assert.Empty(t, conns)

	forProvider, err := svc.Graph.ListPending(ctx, providerX)
	require.NoError(t, err)
	require.Len(t, forProvider.Incoming, 1)
	assert.Equal(t, pending.ConnectionID, forProvider.Incoming[0].ConnectionID)
	assert.Empty(t, forProvider.Outgoing)

	forParent, err := svc.Graph.ListPending(ctx, parentB)
	require.NoError(t, err)
	assert.Empty(t, forParent.Incoming)
	require.Len(t, forParent.Outgoing, 1)
	assert.Equal(t, models.ConnectionPending, forParent.Outgoing[0].Status)
}
