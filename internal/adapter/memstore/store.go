// Package memstore provides an in-memory Store used by tests and by
// deployments without Firestore credentials. State does not survive a
// restart.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gaga2159318-del/KalawFloodMap/internal/domain"
)

// Store keeps all persisted state in process memory behind one mutex.
type Store struct {
	mu               sync.Mutex
	areas            []domain.MonitoredArea
	floodRecords     []domain.FloodRecord
	disregardRecords []domain.DisregardRecord
	notifications    []domain.Notification
	reports          []domain.FloodEventReport
	theme            string
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

func (s *Store) SaveAreas(_ context.Context, areas []domain.MonitoredArea) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.areas = append([]domain.MonitoredArea(nil), areas...)
	return nil
}

func (s *Store) LoadAreas(_ context.Context) ([]domain.MonitoredArea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.MonitoredArea(nil), s.areas...), nil
}

func (s *Store) AppendFloodRecord(_ context.Context, record domain.FloodRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floodRecords = append(s.floodRecords, record)
	return nil
}

func (s *Store) AppendDisregardRecord(_ context.Context, record domain.DisregardRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disregardRecords = append(s.disregardRecords, record)
	return nil
}

func (s *Store) LoadFloodRecords(_ context.Context) ([]domain.FloodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.FloodRecord(nil), s.floodRecords...), nil
}

func (s *Store) LoadDisregardRecords(_ context.Context) ([]domain.DisregardRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.DisregardRecord(nil), s.disregardRecords...), nil
}

func (s *Store) SaveNotifications(_ context.Context, notifications []domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append([]domain.Notification(nil), notifications...)
	return nil
}

func (s *Store) LoadNotifications(_ context.Context) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.notifications...), nil
}

func (s *Store) ClearNotifications(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
	return nil
}

func (s *Store) AppendFloodEventReport(_ context.Context, report domain.FloodEventReport) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	s.reports = append(s.reports, report)
	return report.ID, nil
}

func (s *Store) LoadFloodEventReports(_ context.Context) ([]domain.FloodEventReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.FloodEventReport(nil), s.reports...), nil
}

func (s *Store) SaveThemePreference(_ context.Context, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return nil
}

func (s *Store) LoadThemePreference(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme, nil
}

var _ domain.Store = (*Store)(nil)
