package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Persistence keys, matching what the web client keeps in local storage.
const (
	keyToken = "token"
	keyUser  = "user"
)

// Backend is the key-value surface sessions persist through. The web
// client uses browser local storage; here it is a file or an in-memory
// map.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Store is the single owner of session state. Components read through
// Get and subscribe for changes instead of re-reading raw storage, so a
// logout is observed atomically by everyone.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	current Session
	subs    map[int]func(Session)
	nextSub int
	log     zerolog.Logger
}

func NewStore(backend Backend, log zerolog.Logger) (*Store, error) {
	s := &Store{
		backend: backend,
		subs:    make(map[int]func(Session)),
		log:     log,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load restores a persisted session. A token without a readable user
// record (or the reverse) is treated as no session at all, upholding
// the set-together/cleared-together invariant.
func (s *Store) load() error {
	token, haveToken, err := s.backend.Get(keyToken)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}

	rawUser, haveUser, err := s.backend.Get(keyUser)
	if err != nil {
		return fmt.Errorf("read user: %w", err)
	}

	if !haveToken || !haveUser || token == "" {
		s.current = Session{}
		return nil
	}

	var user User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.log.Warn().Err(err).Msg("stored user record unreadable, dropping session")
		s.current = Session{}
		return nil
	}

	s.current = Session{Token: token, User: user}
	return nil
}

func (s *Store) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set persists token and user together and notifies subscribers.
func (s *Store) Set(sess Session) error {
	if sess.Token == "" {
		return fmt.Errorf("refusing to store session without token")
	}

	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	s.mu.Lock()
	if err := s.backend.Set(keyToken, sess.Token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.backend.Set(keyUser, string(rawUser)); err != nil {
		_ = s.backend.Delete(keyToken)
		s.mu.Unlock()
		return fmt.Errorf("persist user: %w", err)
	}
	s.current = sess
	subs := s.snapshot()
	s.mu.Unlock()

	notify(subs, sess)
	return nil
}

// Clear removes both keys and notifies subscribers with the empty
// session.
func (s *Store) Clear() error {
	s.mu.Lock()
	errToken := s.backend.Delete(keyToken)
	errUser := s.backend.Delete(keyUser)
	s.current = Session{}
	subs := s.snapshot()
	s.mu.Unlock()

	notify(subs, Session{})

	if errToken != nil {
		return fmt.Errorf("delete token: %w", errToken)
	}
	if errUser != nil {
		return fmt.Errorf("delete user: %w", errUser)
	}
	return nil
}

// Subscribe registers fn for session changes and returns an
// unsubscribe func. fn is called synchronously on each Set and Clear.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshot() []func(Session) {
	subs := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Session), sess Session) {
	for _, fn := range subs {
		fn(sess)
	}
}
