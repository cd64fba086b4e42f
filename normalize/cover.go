package normalize

import (
	"encoding/json"

	"webbuses/models"
)

// imageRef is one gallery element once it stopped being a plain string.
type imageRef struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Path      string `json:"path"`
}

// galleryURL resolves a single gallery element: plain string, or an
// object carrying secure_url/url/path.
func galleryURL(raw json.RawMessage, apiBase string) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return URL(s, apiBase)
	}

	var ref imageRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return ""
	}
	switch {
	case ref.SecureURL != "":
		return ref.SecureURL
	case ref.URL != "":
		return URL(ref.URL, apiBase)
	case ref.Path != "":
		return URL(ref.Path, apiBase)
	}
	return ""
}

// gallery picks whichever image array the record actually has.
func gallery(r *models.RawListing) []json.RawMessage {
	switch {
	case len(r.Imagens) > 0:
		return r.Imagens
	case len(r.Fotos) > 0:
		return r.Fotos
	default:
		return r.Images
	}
}

// Cover picks the best available cover image for a listing. Dedicated
// cover fields win over the gallery, newest spelling first. "" means the
// listing has no usable image and the caller should omit the element.
func Cover(r *models.RawListing, apiBase string) string {
	if u := URL(r.FotoCapaThumb, apiBase); u != "" {
		return u
	}
	if u := URL(r.FotoCapaURL, apiBase); u != "" {
		return u
	}
	if u := URL(r.CapaURL, apiBase); u != "" {
		return u
	}
	if g := gallery(r); len(g) > 0 {
		return galleryURL(g[0], apiBase)
	}
	return ""
}
