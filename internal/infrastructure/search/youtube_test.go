package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hszk-dev/tunestream/internal/domain/repository"
)

// innertubeFixture builds a minimal Innertube search response carrying the
// given (videoID, title) pairs, interleaved with non-video entries.
func innertubeFixture(videos ...[2]string) string {
	var items []string
	items = append(items, `{"adSlotRenderer":{}}`) // non-video entry, skipped
	for _, v := range videos {
		items = append(items, fmt.Sprintf(
			`{"videoRenderer":{"videoId":%q,"title":{"runs":[{"text":%q}]}}}`,
			v[0], v[1],
		))
	}
	return fmt.Sprintf(`{
		"contents": {
			"twoColumnSearchResultsRenderer": {
				"primaryContents": {
					"sectionListRenderer": {
						"contents": [
							{"itemSectionRenderer": {"contents": [%s]}}
						]
					}
				}
			}
		}
	}`, strings.Join(items, ","))
}

func TestClient_Search(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var req searchRequest
		if err := decodeBody(r, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotQuery = req.Query

		fmt.Fprint(w, innertubeFixture(
			[2]string{"abc123", "lofi hip hop radio"},
			[2]string{"def456", "lofi beats to study to"},
		))
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.Client(), srv.URL, 3)

	results, err := c.Search(context.Background(), "lofi beats", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotPath != searchPath {
		t.Errorf("request path = %q, want %q", gotPath, searchPath)
	}
	if gotQuery != "lofi beats" {
		t.Errorf("request query = %q, want %q", gotQuery, "lofi beats")
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].VideoID != "abc123" || results[0].Title != "lofi hip hop radio" {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].VideoID != "def456" {
		t.Errorf("results[1] = %+v", results[1])
	}
}

func TestClient_Search_TruncatesToMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, innertubeFixture(
			[2]string{"a", "one"},
			[2]string{"b", "two"},
			[2]string{"c", "three"},
			[2]string{"d", "four"},
		))
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.Client(), srv.URL, 3)

	results, err := c.Search(context.Background(), "anything", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].VideoID != "a" || results[1].VideoID != "b" {
		t.Errorf("relevance order broken: %+v", results)
	}
}

func TestClient_Search_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.Client(), srv.URL, 3)

	_, err := c.Search(context.Background(), "anything", 3)
	if !errors.Is(err, repository.ErrSearchUnavailable) {
		t.Errorf("err = %v, want ErrSearchUnavailable", err)
	}
}

func TestClient_Search_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<!doctype html>")
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.Client(), srv.URL, 3)

	_, err := c.Search(context.Background(), "anything", 3)
	if !errors.Is(err, repository.ErrSearchUnavailable) {
		t.Errorf("err = %v, want ErrSearchUnavailable", err)
	}
}

func TestClient_Search_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // shut down before use

	c := NewClientWithHTTP(&http.Client{}, srv.URL, 3)

	_, err := c.Search(context.Background(), "anything", 3)
	if !errors.Is(err, repository.ErrSearchUnavailable) {
		t.Errorf("err = %v, want ErrSearchUnavailable", err)
	}
}

func TestClient_Search_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, innertubeFixture())
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.Client(), srv.URL, 3)

	results, err := c.Search(context.Background(), "gibberish", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func decodeBody(r *http.Request, out *searchRequest) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
