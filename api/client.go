// Package api is the HTTP client for the marketplace backend. It owns
// every endpoint path and all of the payload shape-sniffing: list
// endpoints answer either a bare array or an {anuncios} wrapper, detail
// endpoints sometimes wrap in {data}, and the client accepts all of it so
// callers only ever see raw records.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"webbuses/models"
)

// ErrNotFound covers 404s and payloads whose identity field is missing.
var ErrNotFound = errors.New("listing not found")

const maxImageBytes = 20 * 1024 * 1024

var apiSuffix = regexp.MustCompile(`(?i)/api$`)

type Client struct {
	host   string // bare host, used to absolutize image paths
	api    string // host + /api, where the endpoints live
	client *http.Client
}

// NewClient accepts the configured base URL with or without a trailing
// /api segment; both spellings are in circulation.
func NewClient(rawBase string) *Client {
	base := strings.TrimRight(strings.TrimSpace(rawBase), "/")
	host := apiSuffix.ReplaceAllString(base, "")
	apiRoot := base
	if !apiSuffix.MatchString(base) {
		apiRoot = base + "/api"
	}

	return &Client{
		host:   host,
		api:    apiRoot,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Host returns the bare host image paths are resolved against.
func (c *Client) Host() string {
	return c.host
}

// APIRoot returns the endpoint root, always ending in /api.
func (c *Client) APIRoot() string {
	return c.api
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("GET %s: status %d: %s", u, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) send(ctx context.Context, method, u string, payload interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, u, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}

// ListListings fetches every listing. The endpoint has answered both a
// bare array and {anuncios: [...]} across backend revisions.
func (c *Client) ListListings(ctx context.Context) ([]models.RawListing, error) {
	body, err := c.get(ctx, c.api+"/anuncios")
	if err != nil {
		return nil, err
	}
	return decodeListingPayload(body)
}

func decodeListingPayload(body []byte) ([]models.RawListing, error) {
	var arr []models.RawListing
	if err := json.Unmarshal(body, &arr); err == nil {
		return arr, nil
	}

	var wrap struct {
		Anuncios []models.RawListing `json:"anuncios"`
	}
	if err := json.Unmarshal(body, &wrap); err == nil {
		// A wrapper without the key means zero listings, not an error.
		return wrap.Anuncios, nil
	}

	return nil, fmt.Errorf("unexpected listing payload shape")
}

func rawHasID(r *models.RawListing) bool {
	return len(r.ID) > 0 || r.AltID != ""
}

// GetListing fetches one listing in full detail. The record may arrive
// bare or wrapped in {data}; a payload with no identity is "not found".
func (c *Client) GetListing(ctx context.Context, id string) (*models.RawListing, error) {
	body, err := c.get(ctx, c.api+"/anuncios/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	var r models.RawListing
	if err := json.Unmarshal(body, &r); err == nil && rawHasID(&r) {
		return &r, nil
	}

	var wrap struct {
		Data models.RawListing `json:"data"`
	}
	if err := json.Unmarshal(body, &wrap); err == nil && rawHasID(&wrap.Data) {
		return &wrap.Data, nil
	}

	return nil, ErrNotFound
}

// GetMeta fetches the lightweight projection used for fast first paint
// and for backfilling grid cards.
func (c *Client) GetMeta(ctx context.Context, id string) (*models.ListingMeta, error) {
	body, err := c.get(ctx, c.api+"/anuncios/"+url.PathEscape(id)+"/meta")
	if err != nil {
		return nil, err
	}
	var meta models.ListingMeta
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("decode meta: %w", err)
	}
	return &meta, nil
}

// UpdateListing sends the editable subset. Every edit goes back through
// moderation, so the payload pins status to pending and re-stamps the
// submission instant.
func (c *Client) UpdateListing(ctx context.Context, id string, upd models.ListingUpdate) error {
	upd.Status = models.StatusPending
	upd.DataEnvio = time.Now().UTC().Format(time.RFC3339)
	return c.send(ctx, "PUT", c.api+"/anuncios/"+url.PathEscape(id), upd)
}

// UpdateStatus moves a listing to a new moderation status.
func (c *Client) UpdateStatus(ctx context.Context, id, status string) error {
	payload := map[string]string{"status": status}
	return c.send(ctx, "PUT", c.api+"/anuncios/"+url.PathEscape(id)+"/status", payload)
}

// DeleteListing removes a listing entirely.
func (c *Client) DeleteListing(ctx context.Context, id string) error {
	return c.send(ctx, "DELETE", c.api+"/anuncios/"+url.PathEscape(id), nil)
}

// AdminPage fetches one page of the admin projection.
func (c *Client) AdminPage(ctx context.Context, page, limit int) (*models.AdminPage, error) {
	u := fmt.Sprintf("%s/admin?page=%d&limit=%d", c.api, page, limit)
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var ap models.AdminPage
	if err := json.Unmarshal(body, &ap); err != nil {
		return nil, fmt.Errorf("decode admin page: %w", err)
	}
	if ap.PaginaAtual == 0 {
		ap.PaginaAtual = page
	}
	if ap.TotalPaginas == 0 {
		ap.TotalPaginas = 1
	}
	return &ap, nil
}

// imageQuery builds the resize parameters the image endpoints accept.
func imageQuery(width, quality int, format string) string {
	q := url.Values{}
	if width > 0 {
		q.Set("w", strconv.Itoa(width))
	}
	if quality > 0 {
		q.Set("q", strconv.Itoa(quality))
	}
	if format != "" {
		q.Set("format", format)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// CoverURL returns the address of a listing's server-rendered cover.
func (c *Client) CoverURL(id string, width, quality int, format string) string {
	return c.api + "/anuncios/" + url.PathEscape(id) + "/capa" + imageQuery(width, quality, format)
}

// PhotoURL returns the address of one gallery photo by index.
func (c *Client) PhotoURL(id string, index, width, quality int, format string) string {
	return fmt.Sprintf("%s/anuncios/%s/foto/%d%s", c.api, url.PathEscape(id), index, imageQuery(width, quality, format))
}

// FetchCover downloads the cover bytes for mirroring. Returns the data
// and the content type.
func (c *Client) FetchCover(ctx context.Context, id string) ([]byte, string, error) {
	u := c.CoverURL(id, 0, 0, "")
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "image/*,*/*")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("GET %s: status %d", u, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}
