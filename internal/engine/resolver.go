package engine

import (
	"context"
	"fmt"

	"github.com/gaga2159318-del/KalawFloodMap/internal/domain"
)

// Action identifies how a user resolves a notification.
type Action string

const (
	ActionConfirm           Action = "confirm"
	ActionDisregard         Action = "disregard"
	ActionConfirmHighRisk   Action = "confirm-high-risk"
	ActionDisregardHighRisk Action = "disregard-high-risk"
	ActionReviewHighRisk    Action = "review-high-risk"
)

// ResolveRequest carries a notification action. Index addresses the
// notification in the current feed; AreaID is required only for the
// single-area actions.
type ResolveRequest struct {
	Action Action `json:"action"`
	Index  int    `json:"index"`
	AreaID string `json:"areaId,omitempty"`
	Actor  string `json:"actor,omitempty"`
}

// ResolveResult reports what an action did. Areas is populated only by
// review-high-risk, which is read-only.
type ResolveResult struct {
	RecordsWritten int                    `json:"recordsWritten"`
	Areas          []domain.MonitoredArea `json:"areas,omitempty"`
}

// Resolve applies a notification action. Confirmations and dismissals write
// audit records against the weather snapshot captured in the notification's
// lifetime, then remove the notification from the feed. Bulk actions walk
// the alert's embedded snapshot in order and keep going past individual
// write failures so one bad record does not lose the rest of the audit
// trail.
func (e *Engine) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	if req.Actor == "" {
		req.Actor = "user"
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if req.Index < 0 || req.Index >= len(e.notifications) {
		return ResolveResult{}, fmt.Errorf("%w: index %d", ErrNotificationNotFound, req.Index)
	}
	notification := e.notifications[req.Index]

	switch req.Action {
	case ActionConfirm, ActionDisregard:
		return e.resolveSingleLocked(ctx, req, notification)
	case ActionConfirmHighRisk, ActionDisregardHighRisk:
		return e.resolveBulkLocked(ctx, req, notification)
	case ActionReviewHighRisk:
		// Read-only: hand back the alert's snapshot for map focus.
		return ResolveResult{Areas: append([]domain.MonitoredArea(nil), notification.HighRiskAreas...)}, nil
	default:
		return ResolveResult{}, fmt.Errorf("%w: unknown action %q", domain.ErrValidation, req.Action)
	}
}

func (e *Engine) resolveSingleLocked(ctx context.Context, req ResolveRequest, notification domain.Notification) (ResolveResult, error) {
	area, ok := e.findAreaLocked(req.AreaID, notification)
	if !ok {
		return ResolveResult{}, fmt.Errorf("%w: %s", ErrAreaNotFound, req.AreaID)
	}

	if err := e.writeAuditLocked(ctx, req.Action == ActionConfirm, area, req.Actor); err != nil {
		return ResolveResult{}, err
	}
	e.removeNotificationLocked(ctx, req.Index)
	return ResolveResult{RecordsWritten: 1}, nil
}

func (e *Engine) resolveBulkLocked(ctx context.Context, req ResolveRequest, notification domain.Notification) (ResolveResult, error) {
	if notification.Type != domain.NotificationHighRiskAlert {
		return ResolveResult{}, fmt.Errorf("%w: notification %d is not a high-risk alert", domain.ErrValidation, req.Index)
	}

	confirm := req.Action == ActionConfirmHighRisk
	written := 0
	for _, area := range notification.HighRiskAreas {
		if err := e.writeAuditLocked(ctx, confirm, area, req.Actor); err != nil {
			e.logger.Error("audit record write failed, continuing",
				"area_id", area.ID, "area_name", area.Name, "error", err)
			continue
		}
		written++
	}
	e.removeNotificationLocked(ctx, req.Index)
	return ResolveResult{RecordsWritten: written}, nil
}

// findAreaLocked resolves the target area, preferring the live list and
// falling back to the notification's snapshot for areas deleted since the
// alert was raised.
func (e *Engine) findAreaLocked(id string, notification domain.Notification) (domain.MonitoredArea, bool) {
	for i := range e.areas {
		if e.areas[i].ID == id {
			return e.areas[i], true
		}
	}
	for i := range notification.HighRiskAreas {
		if notification.HighRiskAreas[i].ID == id {
			return notification.HighRiskAreas[i], true
		}
	}
	return domain.MonitoredArea{}, false
}

func (e *Engine) writeAuditLocked(ctx context.Context, confirm bool, area domain.MonitoredArea, actor string) error {
	if confirm {
		record := domain.NewFloodRecord(area, e.snapshot, e.active, actor)
		if err := e.store.AppendFloodRecord(ctx, record); err != nil {
			e.metrics.AuditWriteErrors.Inc()
			return fmt.Errorf("append flood record: %w", err)
		}
		e.metrics.AuditRecords.WithLabelValues("flood").Inc()
		return nil
	}

	record := domain.NewDisregardRecord(area, e.snapshot, e.active, actor)
	if err := e.store.AppendDisregardRecord(ctx, record); err != nil {
		e.metrics.AuditWriteErrors.Inc()
		return fmt.Errorf("append disregard record: %w", err)
	}
	e.metrics.AuditRecords.WithLabelValues("disregard").Inc()
	return nil
}

// removeNotificationLocked drops one notification from the feed, persists
// the shrunken list, and decrements the badge without going negative.
func (e *Engine) removeNotificationLocked(ctx context.Context, index int) {
	removed := e.notifications[index]
	e.notifications = append(e.notifications[:index:index], e.notifications[index+1:]...)
	if removed.Type == domain.NotificationHighRiskAlert {
		e.hadAlert = hasAlert(e.notifications)
	}
	if removed.Type != domain.NotificationInfo && e.badge > 0 {
		e.badge--
	}
	if err := e.store.SaveNotifications(ctx, e.notifications); err != nil {
		e.metrics.StoreErrors.WithLabelValues("save_notifications").Inc()
		e.logger.Warn("failed to persist notifications", "error", err)
	}
}
