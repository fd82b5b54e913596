// FILE: internal/service/session_store.go
package service

import (
	"time"

	"github.com/patrickmn/go-cache"

	"ramein-web/internal/pkg/logger"
)

// SessionStore keeps live payment sessions keyed by order id. Sessions expire
// with the store TTL; eviction unmounts the session so its countdown ticker
// can never outlive the entry.
type SessionStore struct {
	sessions *cache.Cache
	logger   logger.ILogger
}

func NewSessionStore(ttl time.Duration, log logger.ILogger) *SessionStore {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	store := &SessionStore{
		sessions: cache.New(ttl, 10*time.Minute),
		logger:   log,
	}
	store.sessions.OnEvicted(func(orderId string, v interface{}) {
		if sess, ok := v.(*PaymentSession); ok {
			sess.Unmount()
			store.logger.Debug("SESSION", "Session evicted", map[string]interface{}{
				"order_id": orderId,
			})
		}
	})
	return store
}

func (s *SessionStore) Put(sess *PaymentSession) {
	s.sessions.Set(sess.OrderId, sess, cache.DefaultExpiration)
}

func (s *SessionStore) Get(orderId string) (*PaymentSession, bool) {
	v, ok := s.sessions.Get(orderId)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*PaymentSession)
	return sess, ok
}

// Close removes the session and, through eviction, unmounts it.
func (s *SessionStore) Close(orderId string) {
	s.sessions.Delete(orderId)
}

func (s *SessionStore) Count() int {
	return s.sessions.ItemCount()
}
