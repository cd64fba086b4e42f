package workers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"webbuses/models"
	"webbuses/services"
)

// Uploader is the mirror target. storage.S3Mirror satisfies it; tests
// and unconfigured deployments use NoOpUploader.
type Uploader interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) error
}

// NoOpUploader discards uploads.
type NoOpUploader struct{}

func (NoOpUploader) Upload(ctx context.Context, key string, data io.Reader, contentType string) error {
	return nil
}

// CoverFetcher downloads cover bytes for one listing.
type CoverFetcher interface {
	FetchCover(ctx context.Context, id string) ([]byte, string, error)
}

// CoverWorker mirrors approved listings' cover images to object storage
// so grid traffic stays off the backend's resize proxy.
type CoverWorker struct {
	catalog  *services.Catalog
	fetcher  CoverFetcher
	uploader Uploader

	mu       sync.Mutex
	mirrored map[string]string // listing id -> object key
	trigger  chan struct{}
}

func NewCoverWorker(catalog *services.Catalog, fetcher CoverFetcher, uploader Uploader) *CoverWorker {
	return &CoverWorker{
		catalog:  catalog,
		fetcher:  fetcher,
		uploader: uploader,
		mirrored: make(map[string]string),
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger requests an immediate pass outside the ticker.
func (w *CoverWorker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// MirroredKey returns the object key for a listing, if mirrored.
func (w *CoverWorker) MirroredKey(id string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	key, ok := w.mirrored[id]
	return key, ok
}

// Process downloads one cover, content-hashes it, and uploads it under
// covers/{hh}/{hash}{ext}. Hash-addressed keys make re-runs free.
func (w *CoverWorker) Process(ctx context.Context, listingID string) (string, error) {
	data, contentType, err := w.fetcher.FetchCover(ctx, listingID)
	if err != nil {
		return "", fmt.Errorf("fetch cover: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty cover")
	}

	hash := sha256.Sum256(data)
	digest := hex.EncodeToString(hash[:])
	key := fmt.Sprintf("covers/%s/%s%s", digest[:2], digest, extensionFor(contentType))

	if err := w.uploader.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	return key, nil
}

func extensionFor(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// Run mirrors covers on a ticker, batchSize listings per pass.
func (w *CoverWorker) Run(ctx context.Context, batchSize int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Cover worker stopping")
			return
		case <-ticker.C:
			w.processBatch(ctx, batchSize)
		case <-w.trigger:
			w.processBatch(ctx, batchSize)
		}
	}
}

func (w *CoverWorker) processBatch(ctx context.Context, batchSize int) {
	var pending []string
	w.mu.Lock()
	for _, l := range w.catalog.All() {
		if len(pending) >= batchSize {
			break
		}
		if l.Status != models.StatusApproved {
			continue
		}
		if _, done := w.mirrored[l.ID]; done {
			continue
		}
		pending = append(pending, l.ID)
	}
	w.mu.Unlock()

	if len(pending) == 0 {
		return
	}
	log.Printf("Cover worker: mirroring %d covers", len(pending))

	var uploaded, failed int
	for _, id := range pending {
		if ctx.Err() != nil {
			return
		}

		key, err := w.Process(ctx, id)
		if err != nil {
			log.Printf("Cover worker: failed %s: %v", id, err)
			failed++
			continue
		}

		w.mu.Lock()
		w.mirrored[id] = key
		w.mu.Unlock()
		uploaded++

		// Rate limit between downloads
		time.Sleep(200 * time.Millisecond)
	}

	if uploaded > 0 || failed > 0 {
		log.Printf("Cover worker: uploaded %d, failed %d", uploaded, failed)
	}
}
