package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"fundpulse/internal/config"
)

// dateFolderRe matches report folders named by compact date (YYYYMMDD).
var dateFolderRe = regexp.MustCompile(`^\d{8}$`)

// BlobClient reads report files from a Supabase Storage bucket over its REST
// API. Only list and download are needed; uploads happen out of band.
type BlobClient struct {
	baseURL string
	apiKey  string
	bucket  string
	prefix  string
	client  *http.Client
}

// NewBlobClient creates a storage client from configuration.
func NewBlobClient(cfg config.StorageConfig) *BlobClient {
	return &BlobClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type listRequest struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
}

type listEntry struct {
	Name string `json:"name"`
}

// ListDateFolders returns the names of report folders under the configured
// prefix that look like compact dates, e.g. "20241120".
func (c *BlobClient) ListDateFolders(ctx context.Context) ([]string, error) {
	body, err := json.Marshal(listRequest{Prefix: c.prefix, Limit: 1000})
	if err != nil {
		return nil, fmt.Errorf("failed to encode list request: %w", err)
	}

	url := fmt.Sprintf("%s/storage/v1/object/list/%s", c.baseURL, c.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage objects: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storage list returned status %d", resp.StatusCode)
	}

	var entries []listEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode storage listing: %w", err)
	}

	var folders []string
	for _, e := range entries {
		if dateFolderRe.MatchString(e.Name) {
			folders = append(folders, e.Name)
		}
	}
	return folders, nil
}

// Download fetches an object by path relative to the configured prefix,
// e.g. "20241120/valuation.xls".
func (c *BlobClient) Download(ctx context.Context, path string) ([]byte, error) {
	objectPath := path
	if c.prefix != "" {
		objectPath = c.prefix + "/" + path
	}
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storage download of %s returned status %d", path, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func (c *BlobClient) authorize(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}
