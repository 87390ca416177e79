package infrastructure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStorageProber_ListBuckets(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantCount   int
		expectError bool
	}{
		{
			name:      "two buckets",
			status:    http.StatusOK,
			body:      `[{"id":"documents","name":"documents"},{"id":"avatars","name":"avatars"}]`,
			wantCount: 2,
		},
		{
			name:      "no buckets",
			status:    http.StatusOK,
			body:      `[]`,
			wantCount: 0,
		},
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			body:        `{"message":"invalid key"}`,
			expectError: true,
		},
		{
			name:        "malformed body",
			status:      http.StatusOK,
			body:        `{not json`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/storage/v1/bucket" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.Header.Get("apikey") != "test-key" {
					t.Errorf("expected apikey header, got %q", r.Header.Get("apikey"))
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			prober := NewStorageProber(server.URL, "test-key")
			count, err := prober.ListBuckets(context.Background())

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if count != tt.wantCount {
				t.Errorf("expected %d buckets, got %d", tt.wantCount, count)
			}
		})
	}
}

func TestStorageProber_Unreachable(t *testing.T) {
	prober := NewStorageProber("http://127.0.0.1:1", "test-key")
	_, err := prober.ListBuckets(context.Background())
	if err == nil {
		t.Fatal("expected error for unreachable storage")
	}
}
