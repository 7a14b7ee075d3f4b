package store

import (
	"context"
	"errors"
	"time"

	"velora_back_end/internal/database"

	"github.com/gocql/gocql"
)

// ScyllaEventStore : registre des événements webhook traités.
// Un événement marqué ici a été intégralement traité ; le marquage
// intervient en dernière étape du traitement.
type ScyllaEventStore struct{}

func NewScyllaEventStore() *ScyllaEventStore {
	return &ScyllaEventStore{}
}

func (s *ScyllaEventStore) WasProcessed(ctx context.Context, eventID string) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, err
	}

	var processedAt time.Time
	err = session.Query(`SELECT processed_at FROM processed_events WHERE event_id = ?`, eventID).
		WithContext(ctx).Scan(&processedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ScyllaEventStore) MarkProcessed(ctx context.Context, eventID string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	return session.Query(`INSERT INTO processed_events (event_id, processed_at) VALUES (?, ?)`,
		eventID, time.Now()).WithContext(ctx).Exec()
}
