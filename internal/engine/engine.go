package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gaga2159318-del/KalawFloodMap/internal/domain"
	"github.com/gaga2159318-del/KalawFloodMap/internal/observability"
)

// ErrAreaNotFound is returned when an operation references an area id that is
// not in the monitored set.
var ErrAreaNotFound = errors.New("area not found")

// ErrNotificationNotFound is returned when an action references a
// notification index outside the current feed.
var ErrNotificationNotFound = errors.New("notification not found")

// WeatherProvider fetches live conditions and the raw forecast series.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context) (domain.WeatherSnapshot, error)
	Forecast(ctx context.Context) ([]domain.ForecastEntry, error)
}

// AlertPublisher pushes a newly raised high-risk alert to downstream consumers.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert domain.Notification) error
}

// Engine owns all mutable risk state: the monitored areas, the active weather
// condition, the latest weather snapshot, and the notification feed. Every
// state change regenerates the feed and mirrors it to the store so action
// handlers resolve against stable indices.
type Engine struct {
	store     domain.Store
	weather   WeatherProvider
	publisher AlertPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu             sync.Mutex
	areas          []domain.MonitoredArea
	active         domain.Condition
	autoMode       bool
	manualOverride bool
	snapshot       domain.WeatherSnapshot
	forecast       []domain.ForecastDay
	haveWeather    bool
	notifications  []domain.Notification
	badge          int
	hadAlert       bool

	refreshing atomic.Bool
	ready      atomic.Bool
}

// New creates an Engine. weather may be nil, in which case every refresh uses
// the synthetic fallback conditions. publisher may be nil to disable alert
// publishing.
func New(store domain.Store, weather WeatherProvider, publisher AlertPublisher, autoMode bool, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		store:     store,
		weather:   weather,
		publisher: publisher,
		autoMode:  autoMode,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once persisted state has been loaded.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if !e.ready.Load() {
		return errors.New("persisted state has not been loaded yet")
	}
	return nil
}

// LoadState hydrates areas and the notification feed from the store. Reads
// degrade to empty state so a fresh deployment starts clean.
func (e *Engine) LoadState(ctx context.Context) error {
	areas, err := e.store.LoadAreas(ctx)
	if err != nil {
		return fmt.Errorf("load areas: %w", err)
	}
	notifications, err := e.store.LoadNotifications(ctx)
	if err != nil {
		return fmt.Errorf("load notifications: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.areas = areas
	e.notifications = notifications
	e.badge = domain.BadgeCount(notifications)
	e.hadAlert = hasAlert(notifications)
	// A restart drops any in-flight simulation overlay left in the store.
	cleared := false
	for i := range e.areas {
		if e.areas[i].IsSimulated {
			clearOverlay(&e.areas[i])
			cleared = true
		}
	}
	if cleared {
		if err := e.store.SaveAreas(ctx, e.areas); err != nil {
			e.metrics.StoreErrors.WithLabelValues("save_areas").Inc()
			e.logger.Warn("failed to persist cleared simulation overlays", "error", err)
		}
	}
	e.metrics.MonitoredAreas.Set(float64(len(e.areas)))
	e.ready.Store(true)
	e.logger.Info("state loaded", "areas", len(e.areas), "notifications", len(e.notifications))
	return nil
}

// Areas returns a copy of the monitored area list.
func (e *Engine) Areas() []domain.MonitoredArea {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.MonitoredArea(nil), e.areas...)
}

// CreateArea validates the request, builds the area, and persists the
// expanded list. When a simulation is active the new area immediately
// receives the overlay so the map stays consistent.
func (e *Engine) CreateArea(ctx context.Context, req domain.NewAreaRequest) (domain.MonitoredArea, error) {
	area, err := domain.NewMonitoredArea(req)
	if err != nil {
		return domain.MonitoredArea{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != "" {
		applyOverlay(&area, e.active)
	}
	e.areas = append(e.areas, area)
	if err := e.store.SaveAreas(ctx, e.areas); err != nil {
		e.areas = e.areas[:len(e.areas)-1]
		e.metrics.StoreErrors.WithLabelValues("save_areas").Inc()
		return domain.MonitoredArea{}, fmt.Errorf("save areas: %w", err)
	}
	e.metrics.MonitoredAreas.Set(float64(len(e.areas)))
	e.regenerateLocked(ctx)
	e.logger.Info("area created", "id", area.ID, "name", area.Name, "flood_risk", area.FloodRisk)
	return area, nil
}

// DeleteArea removes an area by id and persists the shrunken list.
func (e *Engine) DeleteArea(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i := range e.areas {
		if e.areas[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrAreaNotFound, id)
	}

	removed := e.areas[idx]
	e.areas = append(e.areas[:idx], e.areas[idx+1:]...)
	if err := e.store.SaveAreas(ctx, e.areas); err != nil {
		e.metrics.StoreErrors.WithLabelValues("save_areas").Inc()
		return fmt.Errorf("save areas: %w", err)
	}
	e.metrics.MonitoredAreas.Set(float64(len(e.areas)))
	e.regenerateLocked(ctx)
	e.logger.Info("area deleted", "id", removed.ID, "name", removed.Name)
	return nil
}

// ApplySimulation activates a weather condition, overlaying every area's risk
// from its persisted baseline. Re-applying a different condition replaces the
// overlay rather than stacking on it. Manually chosen conditions suppress
// automatic re-derivation until the next reset.
func (e *Engine) ApplySimulation(ctx context.Context, condition domain.Condition, manual bool) error {
	if !condition.Valid() {
		return fmt.Errorf("%w: unknown weather condition %q", domain.ErrValidation, condition)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.applySimulationLocked(ctx, condition, manual)
	return nil
}

func (e *Engine) applySimulationLocked(ctx context.Context, condition domain.Condition, manual bool) {
	e.active = condition
	if manual {
		e.manualOverride = true
	}
	for i := range e.areas {
		applyOverlay(&e.areas[i], condition)
	}
	if err := e.store.SaveAreas(ctx, e.areas); err != nil {
		e.metrics.StoreErrors.WithLabelValues("save_areas").Inc()
		e.logger.Warn("failed to persist simulation overlay", "error", err)
	}
	e.metrics.SimulationActive.Set(1)
	e.regenerateLocked(ctx)
	e.logger.Info("simulation applied", "condition", condition, "manual", manual, "areas", len(e.areas))
}

// ResetSimulation clears every overlay and returns to real-time risk.
// Resetting with no active simulation is a no-op. The manual override is
// released, so auto mode may immediately re-derive a condition from the
// latest weather.
func (e *Engine) ResetSimulation(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetSimulationLocked(ctx)

	if e.autoMode && e.haveWeather {
		e.syncAutoConditionLocked(ctx)
	}
	return nil
}

func (e *Engine) resetSimulationLocked(ctx context.Context) {
	e.active = ""
	e.manualOverride = false
	changed := false
	for i := range e.areas {
		if e.areas[i].IsSimulated {
			clearOverlay(&e.areas[i])
			changed = true
		}
	}
	if changed {
		if err := e.store.SaveAreas(ctx, e.areas); err != nil {
			e.metrics.StoreErrors.WithLabelValues("save_areas").Inc()
			e.logger.Warn("failed to persist simulation reset", "error", err)
		}
	}
	e.metrics.SimulationActive.Set(0)
	e.regenerateLocked(ctx)
	e.logger.Info("simulation reset")
}

// SetAutoSimulation toggles automatic condition derivation. Enabling it with
// known weather and no manual override immediately derives from the latest
// snapshot.
func (e *Engine) SetAutoSimulation(ctx context.Context, enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.autoMode = enabled
	e.logger.Info("auto simulation toggled", "enabled", enabled)
	if !enabled || e.manualOverride || !e.haveWeather {
		return
	}
	e.syncAutoConditionLocked(ctx)
}

// syncAutoConditionLocked re-derives the condition from the current snapshot
// and applies it only when it differs from the active one. Clear is a
// condition like any other: it forces every area's displayed risk to low
// rather than returning to baseline.
func (e *Engine) syncAutoConditionLocked(ctx context.Context) {
	if c := domain.ClassifyWeather(e.snapshot, e.forecast); c != e.active {
		e.applySimulationLocked(ctx, c, false)
	}
}

// RefreshWeather fetches current conditions and the forecast, falling back to
// synthetic data when the provider is unavailable. Overlapping refreshes are
// skipped rather than queued.
func (e *Engine) RefreshWeather(ctx context.Context) error {
	if !e.refreshing.CompareAndSwap(false, true) {
		e.metrics.RefreshSkips.Inc()
		e.logger.Debug("refresh skipped, previous cycle still running")
		return nil
	}
	defer e.refreshing.Store(false)

	start := time.Now()
	snapshot, forecast := e.fetchWeather(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshot = snapshot
	e.forecast = forecast
	e.haveWeather = true

	if e.autoMode && !e.manualOverride {
		e.syncAutoConditionLocked(ctx)
	} else {
		e.regenerateLocked(ctx)
	}

	e.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	e.logger.Info("weather refreshed",
		"temperature", snapshot.Temperature,
		"precipitation", snapshot.Precipitation,
		"wind_speed", snapshot.WindSpeed,
		"forecast_days", len(forecast),
	)
	return nil
}

func (e *Engine) fetchWeather(ctx context.Context) (domain.WeatherSnapshot, []domain.ForecastDay) {
	if e.weather == nil {
		e.metrics.WeatherFetches.WithLabelValues("fallback").Inc()
		return domain.FallbackWeather()
	}

	snapshot, err := e.weather.CurrentWeather(ctx)
	if err != nil {
		e.metrics.WeatherFetches.WithLabelValues("error").Inc()
		e.logger.Warn("weather fetch failed, using fallback", "error", err)
		return domain.FallbackWeather()
	}
	entries, err := e.weather.Forecast(ctx)
	if err != nil {
		e.metrics.WeatherFetches.WithLabelValues("error").Inc()
		e.logger.Warn("forecast fetch failed, using fallback", "error", err)
		return domain.FallbackWeather()
	}
	e.metrics.WeatherFetches.WithLabelValues("success").Inc()
	return snapshot, domain.AggregateForecast(entries)
}

// Weather returns the latest snapshot, the aggregated forecast, and whether
// a refresh has completed yet.
func (e *Engine) Weather() (domain.WeatherSnapshot, []domain.ForecastDay, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot, append([]domain.ForecastDay(nil), e.forecast...), e.haveWeather
}

// ActiveCondition returns the active simulation condition ("" when real-time)
// and whether auto mode is enabled.
func (e *Engine) ActiveCondition() (domain.Condition, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active, e.autoMode
}

// Notifications returns the current feed and the unread badge count.
func (e *Engine) Notifications() ([]domain.Notification, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Notification(nil), e.notifications...), e.badge
}

// regenerateLocked rebuilds the notification feed from current state,
// persists it, and publishes a newly raised high-risk alert. Persistence
// failures keep the in-memory feed authoritative for this process.
func (e *Engine) regenerateLocked(ctx context.Context) {
	notifications := domain.GenerateNotifications(e.areas, e.snapshot, e.forecast, e.active)
	for _, n := range notifications {
		e.metrics.NotificationsGenerated.WithLabelValues(string(n.Type)).Inc()
	}

	alertNow := hasAlert(notifications)
	if alertNow && !e.hadAlert && e.publisher != nil {
		for _, n := range notifications {
			if n.Type == domain.NotificationHighRiskAlert {
				if err := e.publisher.PublishAlert(ctx, n); err != nil {
					e.logger.Error("alert publish failed", "error", err)
				} else {
					e.metrics.AlertsPublished.Inc()
				}
				break
			}
		}
	}
	e.hadAlert = alertNow

	e.notifications = notifications
	e.badge = domain.BadgeCount(notifications)
	if err := e.store.SaveNotifications(ctx, notifications); err != nil {
		e.metrics.StoreErrors.WithLabelValues("save_notifications").Inc()
		e.logger.Warn("failed to persist notifications", "error", err)
	}
}

func hasAlert(notifications []domain.Notification) bool {
	for _, n := range notifications {
		if n.Type == domain.NotificationHighRiskAlert {
			return true
		}
	}
	return false
}

// applyOverlay sets the simulated risk fields from the persisted baseline.
// The baseline itself is never written, so switching conditions cannot
// compound.
func applyOverlay(a *domain.MonitoredArea, condition domain.Condition) {
	a.SimulatedFloodRisk = condition.Apply(a.FloodRisk)
	if a.LandslideRisk != "" {
		a.SimulatedLandslideRisk = condition.Apply(a.LandslideRisk)
	}
	a.IsSimulated = true
}

func clearOverlay(a *domain.MonitoredArea) {
	a.SimulatedFloodRisk = ""
	a.SimulatedLandslideRisk = ""
	a.IsSimulated = false
}
