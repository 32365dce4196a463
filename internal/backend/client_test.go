package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/log"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/pager"
)

func testClient(url string) *Client {
	return NewClient(url, "test-token", Options{
		Timeout:      2 * time.Second,
		Retries:      2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
	}, log.NullLogger())
}

func TestFetchPageQueryAndMapping(t *testing.T) {
	var gotQuery map[string]string
	var gotAuth, gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/media" {
			http.NotFound(w, r)
			return
		}
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")

		json.NewEncoder(w).Encode(PageResponse{
			Items: []MediaItemDTO{
				{ID: 11, MediaType: "image", FileName: "a.jpg", Width: 800, Height: 600, IsScannedDocument: true, CreatedAt: "2024-03-01T10:00:00Z"},
				{ID: 12, MediaType: "video", FileName: "b.mp4", DurationSeconds: 192},
				{ID: 13, MediaType: "hologram"},
				{ID: 14, MediaType: "document", PageCount: 3, MimeType: "application/pdf", CreatedAt: "2024-03-01T10:00:00"},
			},
			Page:       2,
			TotalCount: 500,
			TotalPages: 11,
		})
	}))
	defer server.Close()

	client := testClient(server.URL)
	page, err := client.FetchPage(context.Background(), domain.PageRequest{
		Index:    2,
		PageSize: 48,
		Filter:   domain.FilterSet{Kind: domain.KindImage, ExcludeScanned: true},
	})
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	wantQuery := map[string]string{"page": "3", "pageSize": "48", "type": "image", "excludeScanned": "true"}
	for k, v := range wantQuery {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header missing")
	}

	if page.Index != 2 || page.TotalCount != 500 || page.TotalPages != 11 {
		t.Errorf("page = index %d count %d pages %d", page.Index, page.TotalCount, page.TotalPages)
	}
	if len(page.Items) != 4 {
		t.Fatalf("len(Items) = %d, want 4", len(page.Items))
	}

	img, ok := page.Items[0].(*domain.ImageItem)
	if !ok || !img.Scanned || img.Width != 800 || img.AddedAt.IsZero() {
		t.Errorf("Items[0] = %+v, want scanned 800px image with timestamp", page.Items[0])
	}
	vid, ok := page.Items[1].(*domain.VideoItem)
	if !ok || vid.Duration != 192*time.Second {
		t.Errorf("Items[1] = %+v, want 192s video", page.Items[1])
	}
	unknown, ok := page.Items[2].(*domain.UnknownItem)
	if !ok || unknown.ID != 13 || unknown.MediaType != "hologram" {
		t.Errorf("Items[2] = %+v, want unknown hologram item 13 kept in place", page.Items[2])
	}
	doc, ok := page.Items[3].(*domain.DocumentItem)
	if !ok || doc.PageCount != 3 || doc.AddedAt.IsZero() {
		t.Errorf("Items[3] = %+v, want 3-page document with zone-less timestamp", page.Items[3])
	}
}

func TestFetchPageUnfilteredOmitsFilterParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Has("type") || q.Has("excludeScanned") {
			t.Errorf("unexpected filter params: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(PageResponse{Page: 0, TotalPages: 1})
	}))
	defer server.Close()

	if _, err := testClient(server.URL).FetchPage(context.Background(), domain.PageRequest{PageSize: 10}); err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrAuthFailed},
		{"forbidden", http.StatusForbidden, domain.ErrAuthFailed},
		{"not found", http.StatusNotFound, domain.ErrItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := testClient(server.URL).LocateItem(context.Background(), 5, 48, domain.FilterSet{})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("LocateItem() error = %v, want %v", err, tt.wantErr)
			}
			if calls.Load() != 1 {
				t.Errorf("server called %d times, want 1 (no retry on %d)", calls.Load(), tt.status)
			}
		})
	}
}

func TestServerErrorsAreRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(PositionResponse{Page: 4, Offset: 15})
	}))
	defer server.Close()

	pos, err := testClient(server.URL).LocateItem(context.Background(), 208, 48, domain.FilterSet{})
	if err != nil {
		t.Fatalf("LocateItem() error = %v", err)
	}
	if pos != (domain.Position{Page: 4, Offset: 15}) {
		t.Errorf("LocateItem() = %+v, want {4 15}", pos)
	}
	if calls.Load() != 3 {
		t.Errorf("server called %d times, want 3", calls.Load())
	}
}

func TestPersistentServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchPage(context.Background(), domain.PageRequest{PageSize: 48})
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("FetchPage() error = %v, want status 500", err)
	}
}

func TestOfflineServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := testClient(url).GetItem(context.Background(), 1)
	if !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("GetItem() error = %v, want ErrServerOffline", err)
	}
}

func TestJumpPastUnknownItemKeepsGlobalIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/media/15/position":
			json.NewEncoder(w).Encode(PositionResponse{Page: 0, Offset: 2})
		case "/api/media":
			json.NewEncoder(w).Encode(PageResponse{
				Items: []MediaItemDTO{
					{ID: 13, MediaType: "archive", FileName: "bundle.zip"},
					{ID: 14, MediaType: "image", FileName: "a.jpg"},
					{ID: 15, MediaType: "image", FileName: "b.jpg"},
				},
				Page:       0,
				TotalCount: 3,
				TotalPages: 1,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	session := pager.NewSession(testClient(server.URL), 3, domain.FilterSet{}, log.NullLogger())
	result, err := session.Jump(context.Background(), "15")
	if err != nil {
		t.Fatalf("Jump() error = %v", err)
	}
	session.ApplyJump(result)

	entry, ok := session.Cache().Find(15)
	if !ok {
		t.Fatal("item 15 not in cache after jump")
	}
	if result.GlobalIndex != 3 || entry.GlobalIndex != 3 {
		t.Errorf("global index: jump %d, cache %d, want 3 for both", result.GlobalIndex, entry.GlobalIndex)
	}
	if entry.Offset != 2 {
		t.Errorf("cache offset = %d, want 2", entry.Offset)
	}
	if n := len(session.Cache().Flatten()); n != 3 {
		t.Errorf("window holds %d items, want 3", n)
	}
}

func TestLocateItemRejectsOutOfRangeOffset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pageSize"); got != "48" {
			t.Errorf("pageSize = %q, want 48", got)
		}
		json.NewEncoder(w).Encode(PositionResponse{Page: 1, Offset: 48})
	}))
	defer server.Close()

	if _, err := testClient(server.URL).LocateItem(context.Background(), 9, 48, domain.FilterSet{}); err == nil {
		t.Fatal("LocateItem() accepted offset equal to page size")
	}
}

func TestGetItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/media/77" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(MediaItemDTO{ID: 77, MediaType: "audio", DurationSeconds: 61, Bitrate: 320})
	}))
	defer server.Close()

	item, err := testClient(server.URL).GetItem(context.Background(), 77)
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	audio, ok := item.(*domain.AudioItem)
	if !ok || audio.Bitrate != 320 || audio.Description() != "1m 1s" {
		t.Errorf("GetItem() = %+v, want 320kbps 61s audio", item)
	}
}

func TestProbe(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", Options{Retries: 0}, log.NullLogger())
	if err := Probe(context.Background(), client, time.Millisecond, log.NullLogger()); err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("health called %d times, want 2", calls.Load())
	}
}

func TestProbeStopsOnAuthFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad", Options{Retries: 0}, log.NullLogger())
	err := Probe(context.Background(), client, time.Millisecond, log.NullLogger())
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("Probe() error = %v, want ErrAuthFailed", err)
	}
	if calls.Load() != 1 {
		t.Errorf("health called %d times, want 1", calls.Load())
	}
}
