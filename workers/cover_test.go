package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"webbuses/api"
	"webbuses/services"
)

type fakeCoverFetcher struct {
	data map[string][]byte
}

func (f *fakeCoverFetcher) FetchCover(ctx context.Context, id string) ([]byte, string, error) {
	data, ok := f.data[id]
	if !ok {
		return nil, "", api.ErrNotFound
	}
	return data, "image/png", nil
}

type recordingUploader struct {
	mu   sync.Mutex
	keys []string
}

func (u *recordingUploader) Upload(ctx context.Context, key string, data io.Reader, contentType string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.keys = append(u.keys, key)
	return nil
}

func newWorkerCatalog(t *testing.T, payload string) *services.Catalog {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	catalog := services.NewCatalog(api.NewClient(srv.URL), 12)
	if err := catalog.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	return catalog
}

func TestCoverWorker_Process(t *testing.T) {
	data := []byte("fake png bytes")
	fetcher := &fakeCoverFetcher{data: map[string][]byte{"x1": data}}
	uploader := &recordingUploader{}
	catalog := newWorkerCatalog(t, `[{"_id":"x1","status":"aprovado"}]`)

	w := NewCoverWorker(catalog, fetcher, uploader)
	key, err := w.Process(context.Background(), "x1")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	hash := sha256.Sum256(data)
	digest := hex.EncodeToString(hash[:])
	want := fmt.Sprintf("covers/%s/%s.png", digest[:2], digest)
	if key != want {
		t.Fatalf("key = %s, want %s", key, want)
	}
	if len(uploader.keys) != 1 || uploader.keys[0] != want {
		t.Fatalf("upload not recorded: %v", uploader.keys)
	}
}

func TestCoverWorker_ProcessEmptyCover(t *testing.T) {
	fetcher := &fakeCoverFetcher{data: map[string][]byte{"x1": {}}}
	catalog := newWorkerCatalog(t, `[{"_id":"x1","status":"aprovado"}]`)

	w := NewCoverWorker(catalog, fetcher, &recordingUploader{})
	if _, err := w.Process(context.Background(), "x1"); err == nil {
		t.Fatal("empty cover should fail")
	}
}

func TestCoverWorker_BatchSkipsMirroredAndUnapproved(t *testing.T) {
	fetcher := &fakeCoverFetcher{data: map[string][]byte{
		"a": []byte("aaa"),
		"b": []byte("bbb"),
	}}
	uploader := &recordingUploader{}
	catalog := newWorkerCatalog(t, `[
		{"_id":"a","status":"aprovado"},
		{"_id":"b","status":"aprovado"},
		{"_id":"p","status":"pendente"}
	]`)

	w := NewCoverWorker(catalog, fetcher, uploader)
	w.processBatch(context.Background(), 10)

	if len(uploader.keys) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(uploader.keys))
	}
	if _, ok := w.MirroredKey("a"); !ok {
		t.Fatal("listing a should be marked mirrored")
	}
	if _, ok := w.MirroredKey("p"); ok {
		t.Fatal("pending listing should not be mirrored")
	}

	// Second pass is a no-op
	w.processBatch(context.Background(), 10)
	if len(uploader.keys) != 2 {
		t.Fatalf("mirrored listings fetched again: %d uploads", len(uploader.keys))
	}
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"image/png":  ".png",
		"image/webp": ".webp",
		"image/gif":  ".gif",
		"image/jpeg": ".jpg",
		"":           ".jpg",
	}
	for in, want := range cases {
		if got := extensionFor(in); got != want {
			t.Fatalf("extensionFor(%q) = %s, want %s", in, got, want)
		}
	}
}
