package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/mwiater/evalview/internal/results"
)

// session is one uploaded document. Documents are read-only once stored.
type session struct {
	ID       string
	Name     string
	Document *results.Document
	Created  time.Time
}

// sessionStore keeps the most recently used uploads in memory.
type sessionStore struct {
	mu      sync.Mutex
	cache   *lru.Cache
	metrics *metrics
}

func newSessionStore(log logrus.FieldLogger, size int, m *metrics) (*sessionStore, error) {
	if size <= 0 {
		size = 1
	}
	st := &sessionStore{metrics: m}
	cache, err := lru.NewWithEvict(size, func(_, v interface{}) {
		m.sessionEvictions.Inc()
		if sess, ok := v.(*session); ok {
			log.WithFields(logrus.Fields{
				"session": sess.ID,
				"name":    sess.Name,
				"age":     time.Since(sess.Created).Round(time.Second),
			}).Debug("Session evicted")
		}
	})
	if err != nil {
		return nil, err
	}
	st.cache = cache
	return st, nil
}

// Add stores doc under a new session id.
func (st *sessionStore) Add(name string, doc *results.Document) (*session, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	sess := &session{
		ID:       uuid.NewString(),
		Name:     name,
		Document: doc,
		Created:  time.Now(),
	}

	st.mu.Lock()
	st.cache.Add(sess.ID, sess)
	st.metrics.sessions.Set(float64(st.cache.Len()))
	st.mu.Unlock()

	return sess, nil
}

// Get returns the session for id. Malformed ids are reported as unknown.
func (st *sessionStore) Get(id string) (*session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	v, ok := st.cache.Get(id)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session)
	return sess, ok
}

func (st *sessionStore) Len() int {
	return st.cache.Len()
}
