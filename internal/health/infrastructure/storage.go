package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gsihag/immigration-ai-saas/internal/health/domain"
)

const storageTimeout = 10 * time.Second

// StorageProber implements the domain StorageProber interface against a
// Supabase-compatible object-storage service
type StorageProber struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewStorageProber creates a prober for the storage service at baseURL
func NewStorageProber(baseURL, apiKey string) *StorageProber {
	return &StorageProber{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: storageTimeout,
		},
	}
}

// ListBuckets lists the available storage buckets and returns the count
func (p *StorageProber) ListBuckets(ctx context.Context) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.baseURL+"/storage/v1/bucket", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("storage request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("expected status in 200-299 range, got %d", resp.StatusCode)
	}

	var buckets []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&buckets); err != nil {
		return 0, fmt.Errorf("failed to decode bucket list: %w", err)
	}

	return len(buckets), nil
}

var _ domain.StorageProber = (*StorageProber)(nil)
