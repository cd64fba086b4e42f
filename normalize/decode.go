package normalize

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"webbuses/models"
)

var nonDigit = regexp.MustCompile(`\D`)

// Digits strips everything but digits from a phone-like value.
func Digits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// listingID extracts the record id: a plain string, a Mongo-style
// {"$oid": "..."} object, or the alternate "id" field. Records with no
// usable id get an ephemeral one so they are never silently dropped.
func listingID(r *models.RawListing) string {
	if len(r.ID) > 0 {
		var s string
		if err := json.Unmarshal(r.ID, &s); err == nil && s != "" {
			return s
		}
		var oid struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(r.ID, &oid); err == nil && oid.OID != "" {
			return oid.OID
		}
	}
	if r.AltID != "" {
		return r.AltID
	}
	return uuid.NewString()
}

// sentAt parses the record's creation instant across its spellings.
// Unparsable records return the zero time and sort last.
func sentAt(r *models.RawListing) time.Time {
	for _, v := range []string{r.DataEnvio, r.CreatedAt, r.CriadoEm} {
		if t := parseInstant(v); !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}

func updatedAt(r *models.RawListing) time.Time {
	for _, v := range []string{r.UpdatedAt, r.AtualizadoEm} {
		if t := parseInstant(v); !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}

func parseInstant(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// isLink matches the newer records where "anunciante" carries the
// advertiser's WhatsApp link instead of a display name.
func isLink(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "wa.me/")
}

// Decode turns a raw API record into the canonical Listing. This is the
// only place allowed to look at legacy field spellings; whatever
// ambiguity the record carries stops here.
func Decode(r *models.RawListing, apiBase string) models.Listing {
	l := models.Listing{
		ID:           listingID(r),
		Category:     strings.TrimSpace(r.TipoModelo),
		BodyMaker:    strings.TrimSpace(r.FabricanteCarroceria),
		BodyModel:    strings.TrimSpace(r.ModeloCarroceria),
		ChassisMaker: strings.TrimSpace(r.FabricanteChassis),
		ChassisModel: strings.TrimSpace(r.ModeloChassis),
		ModelYear:    strings.TrimSpace(r.AnoModelo),
		Color:        strings.TrimSpace(r.Cor),
		Description:  r.Descricao,
		Status:       models.NormalizeStatus(r.Status),
		City:         strings.TrimSpace(r.Localizacao.Cidade),
		State:        strings.TrimSpace(r.Localizacao.Estado),
		RegisteredAt: strings.TrimSpace(r.DataCadastro),
		SentAt:       sentAt(r),
		UpdatedAt:    updatedAt(r),
	}

	if label, ok := MileageLabel(r); ok {
		l.Mileage = label
	}
	if s := strings.TrimSpace(flexString(r.QuantidadeLugares)); s != "" {
		l.Seats = s
	} else {
		l.Seats = strings.TrimSpace(flexString(r.Lugares))
	}

	l.Price = amountFromRaw(r.Valor)
	l.RawPrice = strings.TrimSpace(flexString(r.Valor))

	l.Cover = Cover(r, apiBase)
	for _, raw := range gallery(r) {
		if u := galleryURL(raw, apiBase); u != "" {
			l.Images = append(l.Images, u)
		}
	}
	l.ImageCount = r.ImagensCount
	if l.ImageCount == 0 {
		l.ImageCount = len(l.Images)
	}

	l.AdvertiserName = strings.TrimSpace(r.NomeAnunciante)
	if l.AdvertiserName == "" && !isLink(r.Anunciante) {
		l.AdvertiserName = strings.TrimSpace(r.Anunciante)
	}
	if isLink(r.Anunciante) {
		l.WhatsAppLink = strings.TrimSpace(r.Anunciante)
	}
	l.Phone = strings.TrimSpace(r.Telefone)
	l.PhoneDigits = r.TelefoneBruto
	if l.PhoneDigits == "" {
		l.PhoneDigits = Digits(r.Telefone)
	} else {
		l.PhoneDigits = Digits(l.PhoneDigits)
	}
	l.Email = strings.ToLower(strings.TrimSpace(r.Email))

	return l
}

// DecodeAll decodes a page of raw records.
func DecodeAll(raws []models.RawListing, apiBase string) []models.Listing {
	out := make([]models.Listing, 0, len(raws))
	for i := range raws {
		out = append(out, Decode(&raws[i], apiBase))
	}
	return out
}
