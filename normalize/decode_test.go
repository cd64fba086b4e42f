package normalize

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"webbuses/models"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return data
}

func TestDecode_FullRecord(t *testing.T) {
	var r models.RawListing
	if err := json.Unmarshal(loadFixture(t, "listing_full.json"), &r); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	l := Decode(&r, testBase)

	if l.ID != "66b2f1c4a0d3e45f78901234" {
		t.Fatalf("oid not extracted, got %s", l.ID)
	}
	if l.Category != "Ônibus 6x2" {
		t.Fatalf("unexpected category %s", l.Category)
	}
	if l.BodyMaker != "Marcopolo" || l.ChassisModel != "K360" {
		t.Fatalf("descriptive fields wrong: %s / %s", l.BodyMaker, l.ChassisModel)
	}
	if l.Mileage != "480.000 km" {
		t.Fatalf("mileage not verbatim, got %q", l.Mileage)
	}
	if l.Seats != "46" {
		t.Fatalf("numeric seats not rendered, got %q", l.Seats)
	}
	if l.Price != 485000 {
		t.Fatalf("price not parsed, got %v", l.Price)
	}
	if l.RawPrice != "R$ 485.000,00" {
		t.Fatalf("raw price not preserved, got %q", l.RawPrice)
	}
	if l.Status != models.StatusApproved {
		t.Fatalf("status not normalized, got %q", l.Status)
	}
	if l.Cover != testBase+"/uploads/capa-thumb.jpg" {
		t.Fatalf("cover not resolved, got %s", l.Cover)
	}
	if len(l.Images) != 2 || l.Images[0] != "https://res.cloudinary.com/demo/g7-1.jpg" {
		t.Fatalf("gallery not decoded: %v", l.Images)
	}
	if l.ImageCount != 2 {
		t.Fatalf("image count should fall back to gallery length, got %d", l.ImageCount)
	}
	if l.City != "Curitiba" || l.State != "PR" {
		t.Fatalf("location wrong: %s/%s", l.City, l.State)
	}
	if l.AdvertiserName != "Viação Estrela" {
		t.Fatalf("advertiser name wrong: %q", l.AdvertiserName)
	}
	if l.WhatsAppLink != "https://wa.me/5541999887766" {
		t.Fatalf("whatsapp link not captured: %q", l.WhatsAppLink)
	}
	if l.PhoneDigits != "41999887766" {
		t.Fatalf("phone digits wrong: %q", l.PhoneDigits)
	}
	if l.Email != "contato@viacaoestrela.com.br" {
		t.Fatalf("email not lowercased: %q", l.Email)
	}
	if l.RegisteredAt != "12/03/2025" {
		t.Fatalf("display date changed: %q", l.RegisteredAt)
	}
	want := time.Date(2025, 3, 12, 14, 25, 0, 0, time.UTC)
	if !l.SentAt.Equal(want) {
		t.Fatalf("sent_at wrong: %v", l.SentAt)
	}
}

func TestDecode_StringID(t *testing.T) {
	r := models.RawListing{ID: json.RawMessage(`"abc123"`)}
	if l := Decode(&r, testBase); l.ID != "abc123" {
		t.Fatalf("string id not used, got %s", l.ID)
	}
}

func TestDecode_AltID(t *testing.T) {
	r := models.RawListing{AltID: "alt-9"}
	if l := Decode(&r, testBase); l.ID != "alt-9" {
		t.Fatalf("alternate id not used, got %s", l.ID)
	}
}

func TestDecode_MissingIDGetsEphemeral(t *testing.T) {
	r := models.RawListing{}
	l := Decode(&r, testBase)
	if l.ID == "" {
		t.Fatal("record without id must still get one")
	}
	l2 := Decode(&r, testBase)
	if l2.ID == l.ID {
		t.Fatal("ephemeral ids should not repeat")
	}
}

func TestDecode_LegacyAdvertiserName(t *testing.T) {
	r := models.RawListing{Anunciante: "João Transportes"}
	l := Decode(&r, testBase)
	if l.AdvertiserName != "João Transportes" {
		t.Fatalf("legacy anunciante name not used: %q", l.AdvertiserName)
	}
	if l.WhatsAppLink != "" {
		t.Fatalf("no link expected, got %q", l.WhatsAppLink)
	}
}

func TestDecode_PhoneDigitsFallback(t *testing.T) {
	r := models.RawListing{Telefone: "(11) 98765-4321"}
	if l := Decode(&r, testBase); l.PhoneDigits != "11987654321" {
		t.Fatalf("digits not derived from display phone: %q", l.PhoneDigits)
	}
}

func TestDecode_DateFallbacks(t *testing.T) {
	r := models.RawListing{CreatedAt: "2024-11-02 09:30:00"}
	l := Decode(&r, testBase)
	if l.SentAt.IsZero() {
		t.Fatal("createdAt fallback not parsed")
	}

	r = models.RawListing{DataEnvio: "not a date"}
	l = Decode(&r, testBase)
	if !l.SentAt.IsZero() {
		t.Fatalf("unparsable date should stay zero, got %v", l.SentAt)
	}
}

func TestDigits(t *testing.T) {
	if got := Digits("+55 (41) 9.9988-7766"); got != "5541999887766" {
		t.Fatalf("unexpected digits %q", got)
	}
	if got := Digits("sem telefone"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
