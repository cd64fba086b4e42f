package storage

import (
	"path/filepath"
	"testing"
	"time"

	"webbuses/models"
)

func newTestStore(t *testing.T) *PrefsStore {
	t.Helper()
	store, err := NewPrefsStore(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPrefsStore_Flags(t *testing.T) {
	store := newTestStore(t)

	accepted, err := store.TermsAccepted()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if accepted {
		t.Fatal("terms should start unaccepted")
	}

	if err := store.SetTermsAccepted(true); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if accepted, _ = store.TermsAccepted(); !accepted {
		t.Fatal("terms acceptance not persisted")
	}

	if seen, _ := store.OnboardingSeen(); seen {
		t.Fatal("onboarding should start unseen")
	}
	if err := store.SetOnboardingSeen(true); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if seen, _ := store.OnboardingSeen(); !seen {
		t.Fatal("onboarding flag not persisted")
	}
}

func TestPrefsStore_LikeOncePerListing(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Like("x1")
	if err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if !first {
		t.Fatal("first like should count")
	}

	second, err := store.Like("x1")
	if err != nil {
		t.Fatalf("second like failed: %v", err)
	}
	if second {
		t.Fatal("repeat like must be a no-op")
	}

	if liked, _ := store.Liked("x1"); !liked {
		t.Fatal("liked state not recorded")
	}
	if liked, _ := store.Liked("x2"); liked {
		t.Fatal("unliked listing reported as liked")
	}
}

func TestPrefsStore_SessionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Session()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if sess != nil {
		t.Fatal("expected no session before login")
	}

	in := &models.Session{
		Name:         "Viação Estrela",
		Phone:        "(41) 99988-7766",
		PhoneDigits:  "41999887766",
		Email:        "contato@viacaoestrela.com.br",
		WhatsAppLink: "https://wa.me/5541999887766",
		LoggedInAt:   time.Now().UTC().Truncate(time.Second),
	}
	if err := store.SaveSession(in); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := store.Session()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got == nil || got.PhoneDigits != in.PhoneDigits || got.Email != in.Email {
		t.Fatalf("session round trip broken: %+v", got)
	}

	// Second login overwrites, never duplicates
	in.Name = "Outro Nome"
	if err := store.SaveSession(in); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if got, _ = store.Session(); got.Name != "Outro Nome" {
		t.Fatalf("session not replaced: %q", got.Name)
	}
}

func TestPrefsStore_ClearSessionResetsTerms(t *testing.T) {
	store := newTestStore(t)

	store.SetTermsAccepted(true)
	store.SaveSession(&models.Session{Name: "X", LoggedInAt: time.Now()})

	if err := store.ClearSession(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if sess, _ := store.Session(); sess != nil {
		t.Fatal("session should be gone after logout")
	}
	if accepted, _ := store.TermsAccepted(); accepted {
		t.Fatal("terms acceptance should be cleared on logout")
	}
}
