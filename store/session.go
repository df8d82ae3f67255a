package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/scambait/plugin/ai/session"
)

// SessionRecord is the persisted shape of a session: identity and lifecycle
// columns for querying, the full state as a JSON payload.
type SessionRecord struct {
	ID           string
	Status       string
	ScamDetected bool
	Payload      []byte
	EndTs        int64
	CreatedTs    int64
	UpdatedTs    int64
}

func recordFromSession(s *session.Session) (*SessionRecord, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "marshal session payload")
	}
	record := &SessionRecord{
		ID:           s.ID,
		Status:       string(s.Status),
		ScamDetected: s.ScamDetected,
		Payload:      payload,
		CreatedTs:    s.StartTime.Unix(),
		UpdatedTs:    time.Now().Unix(),
	}
	if s.EndTime != nil {
		record.EndTs = s.EndTime.Unix()
	}
	return record, nil
}

func (r *SessionRecord) toSession() (*session.Session, error) {
	var s session.Session
	if err := json.Unmarshal(r.Payload, &s); err != nil {
		return nil, errors.Wrapf(err, "unmarshal session payload for %s", r.ID)
	}
	return &s, nil
}

// GetSession loads one session, preferring the cache.
func (s *Store) GetSession(ctx context.Context, id string) (*session.Session, error) {
	if cached, ok := s.sessionCache.Get(id); ok {
		if sess, ok := cached.(*session.Session); ok {
			return sess, nil
		}
	}

	record, err := s.driver.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	sess, err := record.toSession()
	if err != nil {
		return nil, err
	}
	s.sessionCache.Set(id, sess, 0)
	return sess, nil
}

// SaveSession persists the session and refreshes the cache.
func (s *Store) SaveSession(ctx context.Context, sess *session.Session) error {
	record, err := recordFromSession(sess)
	if err != nil {
		return err
	}
	if err := s.driver.UpsertSession(ctx, record); err != nil {
		return errors.Wrapf(err, "upsert session %s", sess.ID)
	}
	s.sessionCache.Set(sess.ID, sess, 0)
	return nil
}

// DeleteSession removes a session from storage and cache.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.sessionCache.Delete(id)
	return s.driver.DeleteSession(ctx, id)
}

// CleanupExpiredSessions drops completed sessions past retention.
func (s *Store) CleanupExpiredSessions(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention).Unix()
	return s.driver.DeleteExpiredSessions(ctx, cutoff)
}

// sessionStore adapts the store to the pipeline's session storage interface.
type sessionStore struct {
	store *Store
}

var _ session.Store = (*sessionStore)(nil)

// SessionStore returns a view of this store usable as the pipeline's
// session storage.
func (s *Store) SessionStore() session.Store {
	return &sessionStore{store: s}
}

func (a *sessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	return a.store.GetSession(ctx, id)
}

func (a *sessionStore) Save(ctx context.Context, sess *session.Session) error {
	return a.store.SaveSession(ctx, sess)
}

func (a *sessionStore) Delete(ctx context.Context, id string) error {
	return a.store.DeleteSession(ctx, id)
}

func (a *sessionStore) CleanupExpired(ctx context.Context, retention time.Duration) (int, error) {
	return a.store.CleanupExpiredSessions(ctx, retention)
}
