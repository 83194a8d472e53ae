// Package session keeps login sessions in a fiber.Storage backend.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the name of the cookie carrying the session id.
const CookieName = "session"

// ErrNoSession is returned when a session id is unknown or expired.
var ErrNoSession = errors.New("no session")

// Data represents the session data structure.
type Data struct {
	UserID    uint64    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store reads and writes session data.
type Store struct {
	storage fiber.Storage
	expiry  time.Duration
}

// New creates a store on top of storage. Sessions expire after expiry.
func New(storage fiber.Storage, expiry time.Duration) *Store {
	if storage == nil {
		panic("storage is nil")
	}

	return &Store{storage: storage, expiry: expiry}
}

// Expiry returns the lifetime of new sessions.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// Create starts a session for userID and returns its id.
func (s *Store) Create(userID uint64) (string, error) {
	sessionID, err := GenerateSessionID()
	if err != nil {
		return "", err
	}

	data := Data{UserID: userID, CreatedAt: time.Now().UTC()}
	if err = s.Write(sessionID, &data); err != nil {
		return "", err
	}

	return sessionID, nil
}

// Write writes the session data for the given session ID.
func (s *Store) Write(sessionID string, data *Data) error {
	out, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return s.storage.Set(sessionID, out, s.expiry)
}

// Read reads the session data for the given session ID.
func (s *Store) Read(sessionID string) (*Data, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	byteData, err := s.storage.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if len(byteData) == 0 {
		return nil, ErrNoSession
	}

	data := new(Data)
	if err = json.Unmarshal(byteData, data); err != nil {
		return nil, err
	}

	if data.UserID == 0 {
		return nil, ErrNoSession
	}

	return data, nil
}

// Delete ends the session.
func (s *Store) Delete(sessionID string) error {
	if sessionID == "" {
		return nil
	}

	return s.storage.Delete(sessionID)
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
