package domain

import "context"

// Store is the key-scoped document persistence port. List-shaped keys
// (areas, notifications) are full-replace writes; record keys are
// append-only. Implementations are eventually consistent, not
// transactional; each operation may fail independently.
type Store interface {
	// SaveAreas replaces the persisted area list wholesale.
	SaveAreas(ctx context.Context, areas []MonitoredArea) error
	// LoadAreas returns the persisted area list; implementations should
	// degrade to an empty list when nothing is stored.
	LoadAreas(ctx context.Context) ([]MonitoredArea, error)

	AppendFloodRecord(ctx context.Context, record FloodRecord) error
	AppendDisregardRecord(ctx context.Context, record DisregardRecord) error
	LoadFloodRecords(ctx context.Context) ([]FloodRecord, error)
	LoadDisregardRecords(ctx context.Context) ([]DisregardRecord, error)

	// SaveNotifications replaces the persisted notification snapshot so
	// action handlers can resolve against stable indices.
	SaveNotifications(ctx context.Context, notifications []Notification) error
	LoadNotifications(ctx context.Context) ([]Notification, error)
	ClearNotifications(ctx context.Context) error

	// AppendFloodEventReport stores a report and returns its generated id.
	AppendFloodEventReport(ctx context.Context, report FloodEventReport) (string, error)
	LoadFloodEventReports(ctx context.Context) ([]FloodEventReport, error)

	SaveThemePreference(ctx context.Context, theme string) error
	// LoadThemePreference returns "" when no preference is stored.
	LoadThemePreference(ctx context.Context) (string, error)
}
