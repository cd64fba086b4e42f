package storage

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"webbuses/models"
)

// PrefsStore persists the small per-browser flags the web client used to
// scatter across ad hoc localStorage keys: terms acceptance, onboarding,
// per-listing likes, and the advertiser session. Listing data itself is
// never written here — the catalog lives in memory only.
type PrefsStore struct {
	db *sql.DB
}

func NewPrefsStore(dbPath string) (*PrefsStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &PrefsStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *PrefsStore) Close() error {
	return s.db.Close()
}

func (s *PrefsStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS flags (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS likes (
		listing_id TEXT PRIMARY KEY,
		liked_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT,
		phone TEXT,
		phone_digits TEXT,
		email TEXT,
		whatsapp_link TEXT,
		logged_in_at DATETIME
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const (
	flagTermsAccepted  = "terms_accepted"
	flagOnboardingSeen = "onboarding_seen"
)

func (s *PrefsStore) getFlag(key string) (bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM flags WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

func (s *PrefsStore) setFlag(key string, value bool) error {
	v := "false"
	if value {
		v = "true"
	}
	_, err := s.db.Exec(`
		INSERT INTO flags (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, v)
	return err
}

// TermsAccepted reports whether the advertiser accepted the publication
// terms. Required before creating a listing.
func (s *PrefsStore) TermsAccepted() (bool, error) {
	return s.getFlag(flagTermsAccepted)
}

func (s *PrefsStore) SetTermsAccepted(accepted bool) error {
	return s.setFlag(flagTermsAccepted, accepted)
}

func (s *PrefsStore) OnboardingSeen() (bool, error) {
	return s.getFlag(flagOnboardingSeen)
}

func (s *PrefsStore) SetOnboardingSeen(seen bool) error {
	return s.setFlag(flagOnboardingSeen, seen)
}

// Like records a like for a listing. Returns false when this store
// already liked it: one like per listing per store, with no server
// reconciliation. That is per-browser, not per-user, and is the
// documented behavior.
func (s *PrefsStore) Like(listingID string) (bool, error) {
	res, err := s.db.Exec(`INSERT OR IGNORE INTO likes (listing_id) VALUES (?)`, listingID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Liked reports whether this store already liked a listing.
func (s *PrefsStore) Liked(listingID string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM likes WHERE listing_id = ?`, listingID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveSession stores the advertiser login snapshot (single row).
func (s *PrefsStore) SaveSession(sess *models.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO session (id, name, phone, phone_digits, email, whatsapp_link, logged_in_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			phone_digits = excluded.phone_digits,
			email = excluded.email,
			whatsapp_link = excluded.whatsapp_link,
			logged_in_at = excluded.logged_in_at`,
		sess.Name, sess.Phone, sess.PhoneDigits, sess.Email, sess.WhatsAppLink, sess.LoggedInAt)
	return err
}

// Session returns the stored advertiser session, or nil when logged out.
func (s *PrefsStore) Session() (*models.Session, error) {
	var sess models.Session
	var loggedInAt sql.NullTime
	err := s.db.QueryRow(`
		SELECT name, phone, phone_digits, email, whatsapp_link, logged_in_at
		FROM session WHERE id = 1`).
		Scan(&sess.Name, &sess.Phone, &sess.PhoneDigits, &sess.Email, &sess.WhatsAppLink, &loggedInAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if loggedInAt.Valid {
		sess.LoggedInAt = loggedInAt.Time
	}
	return &sess, nil
}

// ClearSession logs the advertiser out. Terms acceptance is cleared with
// it, matching the original logout behavior.
func (s *PrefsStore) ClearSession() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return err
	}
	return s.setFlag(flagTermsAccepted, false)
}
