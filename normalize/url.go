// Package normalize is the ingestion boundary between the marketplace
// API's historical record shapes and the canonical models.Listing. All
// field-name archaeology lives here; callers never see a raw record.
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"
)

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// URL resolves a raw image value into an absolute URL against the API
// host. Values arrive in every shape the backend ever produced: absolute,
// protocol-relative, root-relative, bare-relative, or a JSON object that
// was stringified somewhere along the way. Never fails; unusable input
// yields "".
func URL(value, apiBase string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}

	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		var obj struct {
			SecureURL string `json:"secure_url"`
			URL       string `json:"url"`
		}
		if err := json.Unmarshal([]byte(s), &obj); err != nil {
			return ""
		}
		if obj.SecureURL != "" {
			return obj.SecureURL
		}
		if obj.URL != "" {
			return obj.URL
		}
		return ""
	}

	switch {
	case absoluteURL.MatchString(s):
		return s
	case strings.HasPrefix(s, "//"):
		return "https:" + s
	case strings.HasPrefix(s, "/"):
		return apiBase + s
	case !strings.Contains(s, "://"):
		return apiBase + "/" + s
	}
	return ""
}
