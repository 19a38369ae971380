package memory

import (
	"strconv"
	"time"

	"catalog-assistant/internal/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps conversation sessions in process memory. Idle
// sessions expire after 12 hours; losing them only drops in-flight
// conversation state, which the session lifecycle accepts.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(12*time.Hour, 30*time.Minute)
	return &SessionRepository{cache: c}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(key(session.ChatID), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(chatID int64) (*store.Session, bool) {
	if x, found := r.cache.Get(key(chatID)); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// LoadOrCreate returns the chat's session, creating a fresh one at the menu
// when none exists.
func (r *SessionRepository) LoadOrCreate(chatID int64) *store.Session {
	if s, found := r.Get(chatID); found {
		return s
	}
	s := store.NewSession(chatID)
	r.Save(s)
	return s
}

func (r *SessionRepository) Delete(chatID int64) {
	r.cache.Delete(key(chatID))
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
