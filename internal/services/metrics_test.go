package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) *time.Time {
	return ptr(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestAddEntryRanges(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA)

	tests := []struct {
		name  string
		kind  string
		value float64
		side  *string
		ok    bool
	}{
		{"weight zero", "weight", 0, nil, false},
		{"weight above max", "weight", 50.01, nil, false},
		{"weight at max", "weight", 50, nil, true},
		{"height tiny", "height", 0.1, nil, true},
		{"height above max", "height", 130.5, nil, false},
		{"head at min", "head-circumference", 20, nil, true},
		{"head below min", "head-circumference", 19.9, nil, false},
		{"breastfeeding above max", "breastfeeding", 61, ptr("left"), false},
		{"breastfeeding below min", "breastfeeding", 0.5, ptr("left"), false},
		{"breastfeeding ok", "breastfeeding", 15, ptr("Both"), true},
		{"breastfeeding without side", "breastfeeding", 15, nil, false},
		{"breastfeeding bad side", "breastfeeding", 15, ptr("middle"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := svc.Metrics.GetHistory(ctx, tt.kind, parentA.ID, parentA)
			require.NoError(t, err)

			_, err = svc.Metrics.AddEntry(ctx, tt.kind, parentA.ID, parentA, EntryInput{Value: ptr(tt.value), Side: tt.side})
			if tt.ok {
				require.NoError(t, err)
				return
			}
			assertKind(t, err, types.KindValidation)
			ce, _ := types.AsCustom(err)
			assert.NotEmpty(t, ce.Field)
			assert.NotEmpty(t, ce.Bound)

			after, err := svc.Metrics.GetHistory(ctx, tt.kind, parentA.ID, parentA)
			require.NoError(t, err)
			assert.Equal(t, before.Version, after.Version)
			assert.Equal(t, len(before.Entries), len(after.Entries))
		})
	}
}

func TestAddEntryRequiresValueAndKnownKind(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Metrics.AddEntry(ctx, "weight", parentA.ID, parentA, EntryInput{})
	assertKind(t, err, types.KindValidation)

	_, err = svc.Metrics.AddEntry(ctx, "shoe-size", parentA.ID, parentA, EntryInput{Value: ptr(3.0)})
	assertKind(t, err, types.KindValidation)

	_, err = svc.Metrics.AddEntry(ctx, "weight", parentA.ID, parentA, EntryInput{
		Value: ptr(3.0),
		Notes: ptr(strings.Repeat("n", 501)),
	})
	assertKind(t, err, types.KindValidation)

	history, err := svc.Metrics.GetHistory(ctx, "weight", parentA.ID, parentA)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), history.Version)
	assert.Empty(t, history.Entries)
}

func TestNotesLimitCountsCharacters(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	wide := strings.Repeat("日", 500)
	res, err := svc.Metrics.AddEntry(ctx, "weight", parentA.ID, parentA, EntryInput{Value: ptr(3.0), Notes: ptr(wide)})
	require.NoError(t, err)
	assert.Equal(t, wide, res.Entry.Notes)

	_, err = svc.Metrics.AddEntry(ctx, "weight", parentA.ID, parentA, EntryInput{Value: ptr(3.0), Notes: ptr(wide + "日")})
	assertKind(t, err, types.KindValidation)
}

func TestSideClearedForNonBreastfeeding(t *testing.T) {
	svc := newTestServices(t)

	res, err := svc.Metrics.AddEntry(context.Background(), "height", parentA.ID, parentA, EntryInput{Value: ptr(55.0), Side: ptr("left")})
	require.NoError(t, err)
	assert.Empty(t, res.Entry.Side)
}

func TestHistoryStaysSorted(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	dates := []*time.Time{day(2024, 3, 1), day(2024, 1, 1), day(2024, 2, 1)}
	wantPositions := []int{0, 0, 1}
	var ids []string
	for i, d := range dates {
		res, err := svc.Metrics.AddEntry(ctx, "weight", parentA.ID, parentA, EntryInput{Value: ptr(4.0 + float64(i)), DateRecorded: d})
		require.NoError(t, err)
		assert.Equal(t, wantPositions[i], res.Position)
		assert.Equal(t, uint64(i+1), res.Version)
		ids = append(ids, res.Entry.EntryID)
	}

	history, err := svc.Metrics.GetHistory(ctx, "weight", parentA.ID, parentA)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), history.Version)
	assert.Equal(t, "kg", history.Unit)
	require.Len(t, history.Entries, 3)
	assert.Equal(t, []string{ids[1], ids[2], ids[0]}, entryIDs(history.Entries))

	// moving the oldest entry to the end reorders the history
	res, err := svc.Metrics.UpdateEntry(ctx, "weight", parentA.ID, ids[1], parentA, EntryInput{DateRecorded: day(2024, 4, 1)})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Position)
	assert.Equal(t, uint64(4), res.Version)
	assert.Equal(t, uint64(1), res.Entry.Revision)

	history, err = svc.Metrics.GetHistory(ctx, "weight", parentA.ID, parentA)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[2], ids[0], ids[1]}, entryIDs(history.Entries))
	for i := 1; i < len(history.Entries); i++ {
		assert.False(t, history.Entries[i].DateRecorded.Before(history.Entries[i-1].DateRecorded))
	}
}

func TestEqualDatesKeepInsertionOrder(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		res, err := svc.Metrics.AddEntry(ctx, "height", parentA.ID, parentA, EntryInput{Value: ptr(50.0 + float64(i)), DateRecorded: day(2024, 5, 5)})
		require.NoError(t, err)
		assert.Equal(t, i, res.Position)
		ids = append(ids, res.Entry.EntryID)
		time.Sleep(2 * time.Millisecond)
	}

	history, err := svc.Metrics.GetHistory(ctx, "height", parentA.ID, parentA)
	require.NoError(t, err)
	assert.Equal(t, ids, entryIDs(history.Entries))
}

func TestGetHistoryEmpty(t *testing.T) {
	svc := newTestServices(t)

	history, err := svc.Metrics.GetHistory(context.Background(), "breastfeeding", parentA.ID, parentA)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), history.Version)
	assert.NotNil(t, history.Entries)
	assert.Empty(t, history.Entries)
}

func TestEntryAccessControl(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA, parentB, providerX, providerY)
	connect(t, svc, parentA, providerX)
	connect(t, svc, parentA, providerY)

	// unconnected readers and writers are denied
	_, err := svc.Metrics.AddEntry(ctx, "weight", parentB.ID, providerX, EntryInput{Value: ptr(3.0)})
	assertKind(t, err, types.KindAccessDenied)
	_, err = svc.Metrics.GetHistory(ctx, "weight", parentA.ID, parentB)
	assertKind(t, err, types.KindAccessDenied)

	byX, err := svc.Metrics.AddEntry(ctx, "weight", parentA.ID, providerX, EntryInput{Value: ptr(3.4)})
	require.NoError(t, err)
	assert.Equal(t, providerX.ID, byX.Entry.RecordedBy)

	// connected but not the author
	_, err = svc.Metrics.UpdateEntry(ctx, "weight", parentA.ID, byX.Entry.EntryID, providerY, EntryInput{Value: ptr(3.5)})
	assertKind(t, err, types.KindForbidden)
	_, err = svc.Metrics.UpdateEntry(ctx, "weight", parentA.ID, byX.Entry.EntryID, parentA, EntryInput{Value: ptr(3.5)})
	assertKind(t, err, types.KindForbidden)
	_, err = svc.Metrics.DeleteEntry(ctx, "weight", parentA.ID, byX.Entry.EntryID, parentA)
	assertKind(t, err, types.KindForbidden)

	updated, err := svc.Metrics.UpdateEntry(ctx, "weight", parentA.ID, byX.Entry.EntryID, providerX, EntryInput{Value: ptr(3.5), Notes: ptr("after feed")})
	require.NoError(t, err)
	assert.Equal(t, 3.5, updated.Entry.Value)
	assert.Equal(t, "after feed", updated.Entry.Notes)

	inbox, err := svc.Notifications.List(ctx, parentA, false, 20)
	require.NoError(t, err)
	kinds := map[string]int{}
	for _, n := range inbox {
		kinds[n.Kind]++
	}
	assert.Equal(t, 1, kinds[models.NotifyMetricRecorded])
	assert.Equal(t, 1, kinds[models.NotifyMetricUpdated])
}

func TestUpdateEntryValidation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	res, err := svc.Metrics.AddEntry(ctx, "weight", parentA.ID, parentA, EntryInput{Value: ptr(3.0)})
	require.NoError(t, err)

	_, err = svc.Metrics.UpdateEntry(ctx, "weight", parentA.ID, res.Entry.EntryID, parentA, EntryInput{})
	assertKind(t, err, types.KindValidation)

	_, err = svc.Metrics.UpdateEntry(ctx, "weight", parentA.ID, res.Entry.EntryID, parentA, EntryInput{Value: ptr(51.0)})
	assertKind(t, err, types.KindValidation)

	_, err = svc.Metrics.UpdateEntry(ctx, "weight", parentA.ID, "missing", parentA, EntryInput{Value: ptr(4.0)})
	assertKind(t, err, types.KindNotFound)

	// an entry is only addressable under its own kind
	_, err = svc.Metrics.UpdateEntry(ctx, "height", parentA.ID, res.Entry.EntryID, parentA, EntryInput{Value: ptr(50.0)})
	assertKind(t, err, types.KindNotFound)

	history, err := svc.Metrics.GetHistory(ctx, "weight", parentA.ID, parentA)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), history.Version, "failed updates leave the version alone")
	assert.Equal(t, 3.0, history.Entries[0].Value)
}

func TestDeleteEntry(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	first, err := svc.Metrics.AddEntry(ctx, "head-circumference", parentA.ID, parentA, EntryInput{Value: ptr(34.0)})
	require.NoError(t, err)
	_, err = svc.Metrics.AddEntry(ctx, "head-circumference", parentA.ID, parentA, EntryInput{Value: ptr(36.0)})
	require.NoError(t, err)

	version, err := svc.Metrics.DeleteEntry(ctx, "head-circumference", parentA.ID, first.Entry.EntryID, parentA)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), version)

	_, err = svc.Metrics.DeleteEntry(ctx, "head-circumference", parentA.ID, first.Entry.EntryID, parentA)
	assertKind(t, err, types.KindNotFound)

	history, err := svc.Metrics.GetHistory(ctx, "head-circumference", parentA.ID, parentA)
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)
	assert.Equal(t, 36.0, history.Entries[0].Value)
}

func TestListConnectedSubjects(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA, parentB, providerX)
	connect(t, svc, parentA, providerX)
	_, err := svc.Graph.AddDirect(ctx, providerX, parentB.ID)
	require.NoError(t, err)

	_, err = svc.Profiles.Upsert(ctx, parentA, ProfileInput{ChildName: "Sam", DateOfBirth: *day(2024, 1, 15), Gender: "male"})
	require.NoError(t, err)

	subjects, err := svc.Metrics.ListConnectedSubjects(ctx, providerX)
	require.NoError(t, err)
	require.Len(t, subjects, 2)

	byID := map[string]ConnectedSubject{}
	for _, s := range subjects {
		byID[s.SubjectID] = s
	}
	assert.Equal(t, "Alice", byID[parentA.ID].Name)
	assert.Equal(t, "Sam", byID[parentA.ID].ChildName)
	assert.Equal(t, "Bea", byID[parentB.ID].Name)
	assert.Empty(t, byID[parentB.ID].ChildName)

	_, err = svc.Metrics.ListConnectedSubjects(ctx, parentA)
	assertKind(t, err, types.KindForbidden)
}

func TestLookupKind(t *testing.T) {
	ks, err := LookupKind(" Weight ")
	require.NoError(t, err)
	assert.Equal(t, models.MetricWeight, ks.Kind)
	assert.Equal(t, "0 < value <= 50 kg", ks.Bound())

	ks, err = LookupKind("breastfeeding")
	require.NoError(t, err)
	assert.True(t, ks.RequiresSide)
	assert.Equal(t, "1 <= value <= 60 min", ks.Bound())

	_, err = LookupKind("")
	assertKind(t, err, types.KindValidation)
}

func entryIDs(entries []models.MetricEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
	}
	return ids
}

func TestProviderSeesHistoryOnlyAfterAccept(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	registerUsers(t, svc, parentA, providerX)

	_, err := svc.Metrics.AddEntry(ctx, "weight", parentA.ID, parentA, EntryInput{Value: ptr(7.2), DateRecorded: day(2025, time.March, 1)})
	require.NoError(t, err)

	_, err = svc.Metrics.GetHistory(ctx, "weight", parentA.ID, providerX)
	assertKind(t, err, types.KindAccessDenied)

	conn, err := svc.Graph.SendRequest(ctx, parentA, providerX.ID)
	require.NoError(t, err)
	_, err = svc.Metrics.GetHistory(ctx, "weight", parentA.ID, providerX)
	assertKind(t, err, types.KindAccessDenied)

	_, err = svc.Graph.Accept(ctx, conn.ConnectionID, providerX)
	require.NoError(t, err)

	history, err := svc.Metrics.GetHistory(ctx, "weight", parentA.ID, providerX)
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)
	assert.Equal(t, 7.2, history.Entries[0].Value)
	assert.Equal(t, parentA.ID, history.Entries[0].RecordedBy)
}
