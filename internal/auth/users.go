// Read-only user store.
//
// The users file is JSON in one of two shapes:
//
//	{"users": [{"username": "...", "password_hash": "...", "is_admin": true}]}
//	{"alice": "<hash>", "admin": "<hash>"}
//
// The second, older shape carries no roles; only a user named "admin" is an
// administrator there. Hashes are bcrypt, including the $2y$ variant.
// Entries without a name or hash are ignored.
package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidUsersFile is returned when the users file is not a JSON object.
var ErrInvalidUsersFile = errors.New("invalid users file")

// User is an account from the users file.
type User struct {
	Name    string
	IsAdmin bool

	hash []byte
}

// Store holds the accounts loaded from a users file.
type Store struct {
	users map[string]User
}

type userEntry struct {
	Username     string          `json:"username"`
	PasswordHash string          `json:"password_hash"`
	IsAdmin      json.RawMessage `json:"is_admin"`
}

// LoadStore reads the users file at path. A missing file gives an empty
// store, in which no credentials are accepted.
func LoadStore(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Store{users: map[string]User{}}, nil
		}
		return nil, err
	}
	s, err := ParseStore(b)
	if err != nil {
		return nil, fmt.Errorf("users file '%s': %w", path, err)
	}
	return s, nil
}

// ParseStore decodes a users file.
func ParseStore(b []byte) (*Store, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUsersFile, err)
	}

	s := &Store{users: map[string]User{}}

	if raw, ok := doc["users"]; ok {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err == nil {
			for _, e := range entries {
				var entry userEntry
				if err := json.Unmarshal(e, &entry); err != nil {
					continue
				}
				s.add(entry.Username, entry.PasswordHash, truthy(entry.IsAdmin))
			}
			return s, nil
		}
	}

	for name, raw := range doc {
		var hash string
		if err := json.Unmarshal(raw, &hash); err != nil {
			continue
		}
		s.add(name, hash, name == "admin")
	}
	return s, nil
}

func (s *Store) add(name, hash string, admin bool) {
	if name == "" || hash == "" {
		return
	}
	s.users[name] = User{Name: name, IsAdmin: admin, hash: []byte(hash)}
}

// Len returns the number of accounts.
func (s *Store) Len() int {
	return len(s.users)
}

// Verify checks a name and password. ok is false for unknown users and
// wrong passwords alike.
func (s *Store) Verify(name, password string) (User, bool) {
	u, found := s.users[name]
	if !found {
		return User{}, false
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return User{}, false
	}
	return u, true
}

// truthy treats a JSON value the way a loosely typed flag is read: false,
// null, 0, "" and "0" are false, anything else is true.
func truthy(raw json.RawMessage) bool {
	v := strings.TrimSpace(string(raw))
	switch v {
	case "", "null", "false", "0", `""`, `"0"`, "[]", "{}":
		return false
	}
	return true
}
