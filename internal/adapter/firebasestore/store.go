// Package firebasestore persists engine state in Cloud Firestore. List-shaped
// state (areas, notifications) lives in single documents that are replaced
// wholesale; audit records and event reports are append-only collections.
package firebasestore

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gaga2159318-del/KalawFloodMap/internal/config"
	"github.com/gaga2159318-del/KalawFloodMap/internal/domain"
)

const (
	stateCollection  = "state"
	areasDoc         = "areas"
	notificationsDoc = "notifications"
	preferencesDoc   = "preferences"
	floodRecordsColl = "floodRecords"
	disregardsColl   = "disregardRecords"
	floodEventsColl  = "floodEvents"
)

// Store implements domain.Store on Firestore.
type Store struct {
	client *firestore.Client
	logger *slog.Logger
}

// New connects to Firestore using base64-encoded service account credentials
// from the environment, falling back to application default credentials when
// none are configured.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentials != "" {
		creds, err := base64.StdEncoding.DecodeString(cfg.FirebaseCredentials)
		if err != nil {
			return nil, fmt.Errorf("decode firebase credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirestoreProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to firestore: %w", err)
	}
	return &Store{client: client, logger: logger}, nil
}

// Close releases the underlying Firestore client.
func (s *Store) Close() error {
	return s.client.Close()
}

// areasDocument wraps the area list so Firestore stores it as one document.
type areasDocument struct {
	Items []domain.MonitoredArea `firestore:"items"`
}

type notificationsDocument struct {
	Items []domain.Notification `firestore:"items"`
}

type preferencesDocument struct {
	Theme string `firestore:"theme"`
}

func (s *Store) SaveAreas(ctx context.Context, areas []domain.MonitoredArea) error {
	_, err := s.client.Collection(stateCollection).Doc(areasDoc).Set(ctx, areasDocument{Items: areas})
	if err != nil {
		return fmt.Errorf("save areas: %w", err)
	}
	return nil
}

func (s *Store) LoadAreas(ctx context.Context) ([]domain.MonitoredArea, error) {
	snap, err := s.client.Collection(stateCollection).Doc(areasDoc).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load areas: %w", err)
	}
	var doc areasDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode areas: %w", err)
	}
	return doc.Items, nil
}

func (s *Store) AppendFloodRecord(ctx context.Context, record domain.FloodRecord) error {
	_, err := s.client.Collection(floodRecordsColl).Doc(record.ID).Set(ctx, record)
	if err != nil {
		return fmt.Errorf("append flood record: %w", err)
	}
	return nil
}

func (s *Store) AppendDisregardRecord(ctx context.Context, record domain.DisregardRecord) error {
	_, err := s.client.Collection(disregardsColl).Doc(record.ID).Set(ctx, record)
	if err != nil {
		return fmt.Errorf("append disregard record: %w", err)
	}
	return nil
}

func (s *Store) LoadFloodRecords(ctx context.Context) ([]domain.FloodRecord, error) {
	iter := s.client.Collection(floodRecordsColl).OrderBy("timestamp", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var records []domain.FloodRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load flood records: %w", err)
		}
		var record domain.FloodRecord
		if err := snap.DataTo(&record); err != nil {
			return nil, fmt.Errorf("decode flood record %s: %w", snap.Ref.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Store) LoadDisregardRecords(ctx context.Context) ([]domain.DisregardRecord, error) {
	iter := s.client.Collection(disregardsColl).OrderBy("timestamp", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var records []domain.DisregardRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load disregard records: %w", err)
		}
		var record domain.DisregardRecord
		if err := snap.DataTo(&record); err != nil {
			return nil, fmt.Errorf("decode disregard record %s: %w", snap.Ref.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Store) SaveNotifications(ctx context.Context, notifications []domain.Notification) error {
	_, err := s.client.Collection(stateCollection).Doc(notificationsDoc).Set(ctx, notificationsDocument{Items: notifications})
	if err != nil {
		return fmt.Errorf("save notifications: %w", err)
	}
	return nil
}

func (s *Store) LoadNotifications(ctx context.Context) ([]domain.Notification, error) {
	snap, err := s.client.Collection(stateCollection).Doc(notificationsDoc).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	var doc notificationsDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return doc.Items, nil
}

func (s *Store) ClearNotifications(ctx context.Context) error {
	return s.SaveNotifications(ctx, nil)
}

func (s *Store) AppendFloodEventReport(ctx context.Context, report domain.FloodEventReport) (string, error) {
	ref := s.client.Collection(floodEventsColl).NewDoc()
	report.ID = ref.ID
	if _, err := ref.Set(ctx, report); err != nil {
		return "", fmt.Errorf("append flood event report: %w", err)
	}
	return ref.ID, nil
}

func (s *Store) LoadFloodEventReports(ctx context.Context) ([]domain.FloodEventReport, error) {
	iter := s.client.Collection(floodEventsColl).OrderBy("submittedAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var reports []domain.FloodEventReport
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load flood event reports: %w", err)
		}
		var report domain.FloodEventReport
		if err := snap.DataTo(&report); err != nil {
			return nil, fmt.Errorf("decode flood event report %s: %w", snap.Ref.ID, err)
		}
		report.ID = snap.Ref.ID
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *Store) SaveThemePreference(ctx context.Context, theme string) error {
	_, err := s.client.Collection(stateCollection).Doc(preferencesDoc).Set(ctx, preferencesDocument{Theme: theme})
	if err != nil {
		return fmt.Errorf("save theme preference: %w", err)
	}
	return nil
}

func (s *Store) LoadThemePreference(ctx context.Context) (string, error) {
	snap, err := s.client.Collection(stateCollection).Doc(preferencesDoc).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load theme preference: %w", err)
	}
	var doc preferencesDocument
	if err := snap.DataTo(&doc); err != nil {
		return "", fmt.Errorf("decode theme preference: %w", err)
	}
	return doc.Theme, nil
}

var _ domain.Store = (*Store)(nil)
