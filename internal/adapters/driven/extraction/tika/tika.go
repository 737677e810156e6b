// Package tika provides an extraction service adapter backed by an
// Apache Tika server. Tika recovers text (or HTML) from PDF, DOCX, ODT
// and most other office formats through a single HTTP endpoint.
package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
)

// Ensure ExtractionService implements the interface.
var _ driven.ExtractionService = (*ExtractionService)(nil)

// Extraction modes. Text mode asks Tika for plain text; HTML mode asks
// for structured markup, which preserves headings for title detection.
const (
	ModeText = "text"
	ModeHTML = "html"
)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:9998"
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 3

	// defaultRate paces requests so a watch-mode burst of files does
	// not overwhelm a single-threaded Tika server.
	defaultRate = rate.Limit(4)
)

// Config holds configuration for the Tika extraction service.
type Config struct {
	// BaseURL is the Tika server base URL (default: http://localhost:9998).
	BaseURL string

	// Mode selects plain text or HTML output (default: text).
	Mode string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration

	// MaxRetries is how many times a failed request is retried (default: 3).
	MaxRetries int

	// RequestsPerSecond paces extraction requests (default: 4).
	RequestsPerSecond float64
}

// ExtractionService extracts document content through a Tika server.
type ExtractionService struct {
	client     *http.Client
	baseURL    string
	mode       string
	maxRetries int
	limiter    *rate.Limiter
}

// NewExtractionService creates a new Tika extraction service.
func NewExtractionService(cfg Config) (*ExtractionService, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeText
	}
	if cfg.Mode != ModeText && cfg.Mode != ModeHTML {
		return nil, fmt.Errorf("unknown extraction mode %q: %w", cfg.Mode, domain.ErrInvalidInput)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}

	limit := defaultRate
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &ExtractionService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.BaseURL,
		mode:       cfg.Mode,
		maxRetries: cfg.MaxRetries,
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

// Extract recovers the content of the file at path.
func (s *ExtractionService) Extract(ctx context.Context, path string) (*driven.Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s is empty: %w", filepath.Base(path), domain.ErrInvalidInput)
	}

	accept := "text/plain"
	if s.mode == ModeHTML {
		accept = "text/html"
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
		if attempt > 0 {
			// Linear backoff between retries.
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		content, err := s.put(ctx, data, accept)
		if err == nil {
			return &driven.Extraction{Content: content, ContentType: s.mode}, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("extracting %s: %w", filepath.Base(path), lastErr)
}

// put sends one extraction request to the Tika server.
func (s *ExtractionService) put(ctx context.Context, data []byte, accept string) (string, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPut,
		s.baseURL+"/tika",
		bytes.NewReader(data),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tika error (status %d): %s", resp.StatusCode, string(body))
	}

	return string(body), nil
}

// Method identifies this extraction backend. HTML mode is a distinct
// method so both variants of a document can coexist in the store.
func (s *ExtractionService) Method() string {
	if s.mode == ModeHTML {
		return "tika-html"
	}
	return "tika"
}

// Ping validates the server is reachable by checking the /version endpoint.
func (s *ExtractionService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/version", http.NoBody)
	if err != nil {
		return fmt.Errorf("tika: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("tika: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tika: server returned status %d", resp.StatusCode)
	}
	return nil
}
