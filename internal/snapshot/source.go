// Package snapshot fetches and decodes the grading pipeline's JSON documents.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wctc-net-database/gradedash/internal/contract"
)

// Document names published by the grading pipeline.
const (
	CurrentDocumentName     = "current.json"
	HistoryDocumentName     = "history.json"
	AssignmentsDocumentName = "assignments.json"
)

// maxDocumentSize caps a single fetched document.
const maxDocumentSize = 64 << 20

var (
	// ErrNotFound is returned by a source when the named document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrDocumentTooLarge is returned when a fetched document exceeds the size cap.
	ErrDocumentTooLarge = errors.New("document too large")
)

// AssignmentDocumentName returns the legacy per-assignment document name.
func AssignmentDocumentName(pattern string) string {
	return pattern + ".json"
}

// validName rejects names that could escape the data location.
func validName(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid document name %q", name)
	}
	return nil
}

// DirSource reads documents from a local directory.
type DirSource struct {
	Root string
}

var _ contract.DocumentSource = &DirSource{} // Compile-time check

// Fetch reads the named file under Root.
func (s *DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.Root, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Join(s.Root, name))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Describe returns the directory path.
func (s *DirSource) Describe() string {
	return s.Root
}

// HTTPSource fetches documents relative to a base URL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
	MaxSize int64 // 0 means maxDocumentSize
}

var _ contract.DocumentSource = &HTTPSource{} // Compile-time check

// NewHTTPSource returns a source with its own client and timeout.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch GETs BaseURL/name.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	target := s.BaseURL + "/" + name

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", target, resp.Status)
	}

	limit := s.MaxSize
	if limit <= 0 {
		limit = maxDocumentSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", target, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrDocumentTooLarge, target, limit)
	}
	return data, nil
}

// Describe returns the base URL.
func (s *HTTPSource) Describe() string {
	return s.BaseURL
}

// NewSource picks the source for the configured data location, wrapped by the
// document cache when one is available.
func NewSource(cfg *contract.Config, mgr contract.StoreManager) (contract.DocumentSource, error) {
	var src contract.DocumentSource
	if contract.IsRemoteSource(cfg.DataSource) {
		src = NewHTTPSource(cfg.DataSource, cfg.FetchTimeout)
	} else {
		src = &DirSource{Root: cfg.DataSource}
	}

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetDocumentStore()
	}
	if store == nil {
		if cfg.Offline {
			return nil, errors.New("--offline requires a document cache (set --cache-backend)")
		}
		return src, nil
	}
	return &CachedSource{Inner: src, Store: store, Offline: cfg.Offline}, nil
}
