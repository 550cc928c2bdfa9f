package credentials

import (
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/admin-portal/internal/authapi"
	"github.com/khanghh/admin-portal/internal/store"
)

const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

var (
	ErrNoCredentials = errors.New("no stored credentials")
)

// Store holds the bearer token and user record issued at the end of a
// successful sign in, one pair per browser session.
type Store struct {
	storage fiber.Storage
	maxAge  time.Duration
}

func key(sessionID string, name string) string {
	return sessionID + ":" + name
}

func (s *Store) Save(sessionID string, session authapi.Session) error {
	user, err := json.Marshal(session.User)
	if err != nil {
		return err
	}
	if err := s.storage.Set(key(sessionID, TokenKey), []byte(session.Token), s.maxAge); err != nil {
		return err
	}
	return s.storage.Set(key(sessionID, UserKey), user, s.maxAge)
}

func (s *Store) Load(sessionID string) (*authapi.Session, error) {
	token, err := s.storage.Get(key(sessionID, TokenKey))
	if err != nil {
		return nil, err
	}
	userData, err := s.storage.Get(key(sessionID, UserKey))
	if err != nil {
		return nil, err
	}
	if len(token) == 0 || len(userData) == 0 {
		return nil, ErrNoCredentials
	}
	var user authapi.User
	if err := json.Unmarshal(userData, &user); err != nil {
		return nil, err
	}
	return &authapi.Session{Token: string(token), User: user}, nil
}

func (s *Store) Delete(sessionID string) error {
	if err := s.storage.Delete(key(sessionID, TokenKey)); err != nil {
		return err
	}
	return s.storage.Delete(key(sessionID, UserKey))
}

func NewStore(storage fiber.Storage, maxAge time.Duration) *Store {
	return &Store{
		storage: store.NewPrefixStorage(storage, "credentials:"),
		maxAge:  maxAge,
	}
}
