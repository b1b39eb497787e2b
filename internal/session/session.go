// Package session persists the remembered login and hands the rest of
// the app an explicit context value. Nothing here is a process-wide
// singleton: whoever needs the token or the operator identity gets a
// Context passed into its constructor.
package session

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/warelog/scanpost/internal/models"
)

// Session is the on-disk shape: the auth token plus the loosely typed
// role fields exactly as the service returned them.
type Session struct {
	Token        string `json:"token"`
	OperatorName string `json:"user_name"`
	RoleName     string `json:"role"`
	RoleLevel    int    `json:"role_level"`
}

// Context is what components actually consume: token, operator, and
// the role resolved to the closed enum.
type Context struct {
	Token        string
	OperatorName string
	Role         models.Role
}

func (s Session) Context() Context {
	return Context{
		Token:        s.Token,
		OperatorName: s.OperatorName,
		Role:         models.ResolveRole(s.RoleName, s.RoleLevel),
	}
}

// LoggedIn reports whether the session carries a usable token.
func (c Context) LoggedIn() bool { return c.Token != "" }

type Store struct {
	path string
}

func NewStore(path string) *Store { return &Store{path: path} }

// Load reads the remembered login. Missing file means a fresh start;
// a corrupt file is discarded and also means a fresh start. Neither
// condition surfaces to the operator.
func (s *Store) Load() Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Session{}
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		slog.Warn("session file corrupt, discarding", "path", s.path, "error", err.Error())
		_ = os.Remove(s.path)
		return Session{}
	}
	return sess
}

// Save rewrites the session atomically.
func (s *Store) Save(sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "mkdir session dir")
	}
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp session")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "write temp session")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "close temp session")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "rename temp session")
	}
	return nil
}

// Clear forgets the login.
func (s *Store) Clear() {
	_ = os.Remove(s.path)
}
