package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaga2159318-del/KalawFloodMap/internal/adapter/memstore"
	"github.com/gaga2159318-del/KalawFloodMap/internal/domain"
)

// alertEngine builds an engine whose feed starts with one high-risk alert
// covering the given number of areas.
func alertEngine(t *testing.T, store domain.Store, areaCount int) *Engine {
	t.Helper()
	e := newTestEngine(t, store, nil, nil, false)
	names := []string{"Riverside", "Market", "School", "Bridge", "Chapel"}
	for i := 0; i < areaCount; i++ {
		_, err := e.CreateArea(context.Background(), pointRequest(names[i], domain.RiskHigh))
		require.NoError(t, err)
	}

	notifications, _ := e.Notifications()
	require.NotEmpty(t, notifications)
	require.Equal(t, domain.NotificationHighRiskAlert, notifications[0].Type)
	require.Len(t, notifications[0].HighRiskAreas, areaCount)
	return e
}

func TestResolve_ConfirmSingle(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	e := alertEngine(t, store, 1)
	areas := e.Areas()

	result, err := e.Resolve(ctx, ResolveRequest{
		Action: ActionConfirm,
		Index:  0,
		AreaID: areas[0].ID,
		Actor:  "operator",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsWritten)

	records, err := store.LoadFloodRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, areas[0].ID, records[0].AreaID)
	assert.Equal(t, "operator", records[0].ConfirmedBy)
	assert.Equal(t, "real-time", records[0].SimulationContext)

	notifications, badge := e.Notifications()
	assert.Empty(t, notifications)
	assert.Equal(t, 0, badge)
}

func TestResolve_DisregardSingle(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	e := alertEngine(t, store, 1)
	areas := e.Areas()

	result, err := e.Resolve(ctx, ResolveRequest{
		Action: ActionDisregard,
		Index:  0,
		AreaID: areas[0].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsWritten)

	records, err := store.LoadDisregardRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "user", records[0].DisregardedBy)

	floods, err := store.LoadFloodRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, floods)
}

func TestResolve_SingleRecordsSimulationContext(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	e := newTestEngine(t, store, nil, nil, false)
	area, err := e.CreateArea(ctx, pointRequest("Riverside", domain.RiskLow))
	require.NoError(t, err)

	require.NoError(t, e.ApplySimulation(ctx, domain.ConditionTyphoon, true))
	notifications, _ := e.Notifications()
	require.Equal(t, domain.NotificationHighRiskAlert, notifications[0].Type)

	_, err = e.Resolve(ctx, ResolveRequest{Action: ActionConfirm, Index: 0, AreaID: area.ID})
	require.NoError(t, err)

	records, err := store.LoadFloodRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "typhoon", records[0].SimulationContext)
}

func TestResolve_BulkDisregardWritesOrderedRecords(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	e := alertEngine(t, store, 3)

	result, err := e.Resolve(ctx, ResolveRequest{Action: ActionDisregardHighRisk, Index: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, result.RecordsWritten)

	records, err := store.LoadDisregardRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Riverside", records[0].AreaName)
	assert.Equal(t, "Market", records[1].AreaName)
	assert.Equal(t, "School", records[2].AreaName)

	notifications, badge := e.Notifications()
	assert.Empty(t, notifications)
	assert.Equal(t, 0, badge)
}

func TestResolve_BulkConfirmContinuesPastWriteFailures(t *testing.T) {
	ctx := context.Background()
	inner := memstore.New()
	store := &failingStore{Store: inner}
	e := alertEngine(t, store, 2)

	store.failAppend = true
	result, err := e.Resolve(ctx, ResolveRequest{Action: ActionConfirmHighRisk, Index: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, result.RecordsWritten)

	// The notification is still consumed so the user is not stuck retrying.
	notifications, _ := e.Notifications()
	assert.Empty(t, notifications)
}

func TestResolve_BulkOnNonAlertRejected(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, memstore.New(), nil, nil, false)
	require.NoError(t, e.RefreshWeather(ctx))
	notifications, _ := e.Notifications()
	require.NotEmpty(t, notifications)
	require.NotEqual(t, domain.NotificationHighRiskAlert, notifications[0].Type)

	_, err := e.Resolve(ctx, ResolveRequest{Action: ActionConfirmHighRisk, Index: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestResolve_ReviewIsReadOnly(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	e := alertEngine(t, store, 2)

	result, err := e.Resolve(ctx, ResolveRequest{Action: ActionReviewHighRisk, Index: 0})
	require.NoError(t, err)
	assert.Len(t, result.Areas, 2)
	assert.Zero(t, result.RecordsWritten)

	// Nothing written, nothing removed.
	floods, err := store.LoadFloodRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, floods)
	notifications, badge := e.Notifications()
	assert.Len(t, notifications, 1)
	assert.Equal(t, 1, badge)
}

func TestResolve_SingleResolvesVanishedAreaFromSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	// A persisted alert can reference an area that is no longer in the
	// store, for example after an edit from another process. The snapshot
	// embedded in the notification still lets the action produce an audit
	// record.
	require.NoError(t, store.SaveNotifications(ctx, []domain.Notification{{
		Type:    domain.NotificationHighRiskAlert,
		Title:   "High Risk Areas Detected",
		Message: "1 area detected with high flood or landslide risk.",
		HighRiskAreas: []domain.MonitoredArea{
			{ID: "gone", Name: "Old Riverside", FloodRisk: domain.RiskHigh},
		},
	}}))
	e := newTestEngine(t, store, nil, nil, false)

	result, err := e.Resolve(ctx, ResolveRequest{Action: ActionConfirm, Index: 0, AreaID: "gone"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsWritten)

	records, err := store.LoadFloodRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "gone", records[0].AreaID)
	assert.Equal(t, "Old Riverside", records[0].AreaName)
}

func TestResolve_IndexOutOfRange(t *testing.T) {
	e := newTestEngine(t, memstore.New(), nil, nil, false)

	_, err := e.Resolve(context.Background(), ResolveRequest{Action: ActionConfirm, Index: 5})
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	_, err = e.Resolve(context.Background(), ResolveRequest{Action: ActionConfirm, Index: -1})
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestResolve_UnknownAction(t *testing.T) {
	e := alertEngine(t, memstore.New(), 1)

	_, err := e.Resolve(context.Background(), ResolveRequest{Action: "escalate", Index: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestResolve_UnknownAreaID(t *testing.T) {
	e := alertEngine(t, memstore.New(), 1)

	_, err := e.Resolve(context.Background(), ResolveRequest{Action: ActionConfirm, Index: 0, AreaID: "missing"})
	assert.ErrorIs(t, err, ErrAreaNotFound)
}
