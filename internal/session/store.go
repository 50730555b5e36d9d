package session

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt"
	_ "modernc.org/sqlite"

	"snapfeed/internal/models"
)

// Store holds the current bearer credential and the identity it belongs
// to, persisted in a local SQLite database so it survives restarts. The
// schema allows at most one row: login and registration replace it,
// logout deletes it.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS session(
		id INTEGER PRIMARY KEY CHECK(id = 1),
		token TEXT NOT NULL,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		email TEXT NOT NULL,
		full_name TEXT,
		saved_at DATETIME NOT NULL
	);`)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

// Save stores the credential and its owner, replacing any previous one.
func (s *Store) Save(token string, user models.AuthUser) error {
	if token == "" {
		return errors.New("empty token")
	}
	var fullName any
	if user.FullName != nil {
		fullName = *user.FullName
	}
	_, err := s.db.Exec(`INSERT INTO session(id,token,user_id,username,email,full_name,saved_at)
		VALUES(1,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET token=excluded.token, user_id=excluded.user_id,
			username=excluded.username, email=excluded.email,
			full_name=excluded.full_name, saved_at=excluded.saved_at`,
		token, user.ID, user.Username, user.Email, fullName, time.Now())
	return err
}

// Token returns the stored credential, or false when logged out.
func (s *Store) Token() (string, bool) {
	var tok string
	err := s.db.QueryRow(`SELECT token FROM session WHERE id = 1`).Scan(&tok)
	if err != nil || tok == "" {
		return "", false
	}
	return tok, true
}

// User returns the identity saved at login/registration.
func (s *Store) User() (models.AuthUser, bool) {
	var u models.AuthUser
	var fullName sql.NullString
	err := s.db.QueryRow(`SELECT user_id, username, email, full_name FROM session WHERE id = 1`).
		Scan(&u.ID, &u.Username, &u.Email, &fullName)
	if err != nil {
		return models.AuthUser{}, false
	}
	if fullName.Valid {
		u.FullName = &fullName.String
	}
	return u, true
}

func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}

// ExpiresAt reads the exp claim of the stored token without verifying
// its signature (the secret is server-side). Advisory only: requests are
// still attempted with an expired token and rejected by the server.
func (s *Store) ExpiresAt() (time.Time, bool) {
	tok, ok := s.Token()
	if !ok {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(exp), 0), true
}
