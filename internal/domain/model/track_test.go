package model

import "testing"

func TestResultSet_First(t *testing.T) {
	tests := []struct {
		name   string
		set    ResultSet
		wantID string
		wantOK bool
	}{
		{
			name:   "empty set",
			set:    ResultSet{},
			wantOK: false,
		},
		{
			name:   "nil set",
			set:    nil,
			wantOK: false,
		},
		{
			name: "returns most relevant",
			set: ResultSet{
				{VideoID: "abc123", Title: "first"},
				{VideoID: "def456", Title: "second"},
			},
			wantID: "abc123",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.set.First()
			if ok != tt.wantOK {
				t.Fatalf("First() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.VideoID != tt.wantID {
				t.Errorf("First() VideoID = %q, want %q", got.VideoID, tt.wantID)
			}
		})
	}
}

func TestSearchResult_WatchURL(t *testing.T) {
	r := SearchResult{VideoID: "dQw4w9WgXcQ"}
	want := "https://youtu.be/dQw4w9WgXcQ"
	if got := r.WatchURL(); got != want {
		t.Errorf("WatchURL() = %q, want %q", got, want)
	}
}

func TestMediaFormat_HasAudio(t *testing.T) {
	tests := []struct {
		name   string
		format MediaFormat
		want   bool
	}{
		{"opus with URL", MediaFormat{ACodec: "opus", URL: "https://example.com/a"}, true},
		{"video only", MediaFormat{ACodec: "none", URL: "https://example.com/v"}, false},
		{"missing codec", MediaFormat{ACodec: "", URL: "https://example.com/x"}, false},
		{"missing URL", MediaFormat{ACodec: "aac", URL: ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.HasAudio(); got != tt.want {
				t.Errorf("HasAudio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPlaybackTarget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		target, err := NewPlaybackTarget("lofi beats", "https://example.com/stream")
		if err != nil {
			t.Fatalf("NewPlaybackTarget failed: %v", err)
		}
		if target.Title != "lofi beats" {
			t.Errorf("Title = %q, want %q", target.Title, "lofi beats")
		}
	})

	t.Run("empty title", func(t *testing.T) {
		if _, err := NewPlaybackTarget("", "https://example.com/stream"); err != ErrEmptyTitle {
			t.Errorf("err = %v, want ErrEmptyTitle", err)
		}
	})

	t.Run("empty stream URL", func(t *testing.T) {
		if _, err := NewPlaybackTarget("lofi beats", ""); err != ErrEmptyStreamURL {
			t.Errorf("err = %v, want ErrEmptyStreamURL", err)
		}
	})
}
