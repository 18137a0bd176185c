package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearskies/clearskies/internal/provider/resilience"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SyncerConfig holds configuration for a mirror syncer.
type SyncerConfig struct {
	// MirrorURL is the base URL of the granule mirror. The mirror serves
	// an index.json listing granule filenames, and each granule at its
	// filename under the same base.
	MirrorURL string

	// Dir is the local granule directory.
	Dir string

	// HTTPClient is the HTTP client to use.
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Registry tracks the default resilient client, when one is created.
	Registry *resilience.Registry

	// Timeout for individual downloads (default: 60s).
	Timeout time.Duration

	Logger zerolog.Logger
}

// Syncer downloads granules a mirror has that the local directory lacks.
type Syncer struct {
	mirrorURL  string
	dir        string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewSyncer creates a mirror syncer.
func NewSyncer(cfg SyncerConfig) *Syncer {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            "tempo-mirror",
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     10 * time.Second,
			Registry:        cfg.Registry,
		})
	}

	return &Syncer{
		mirrorURL:  strings.TrimSuffix(cfg.MirrorURL, "/"),
		dir:        cfg.Dir,
		httpClient: httpClient,
		logger:     cfg.Logger.With().Str("component", "tempo-sync").Logger(),
	}
}

// SyncResult summarizes one sync pass.
type SyncResult struct {
	Downloaded int
	Skipped    int
}

type mirrorIndex struct {
	Granules []string `json:"granules"`
}

// Sync fetches the mirror index and downloads every listed granule not
// already present locally. Files already on disk are never re-fetched;
// granules are immutable once published.
func (s *Syncer) Sync(ctx context.Context) (*SyncResult, error) {
	index, err := s.fetchIndex(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	for _, name := range index.Granules {
		if !validGranuleName(name) {
			s.logger.Warn().Str("name", name).Msg("skipping unexpected index entry")
			continue
		}

		local := filepath.Join(s.dir, name)
		if _, err := os.Stat(local); err == nil {
			result.Skipped++
			continue
		}

		if err := s.download(ctx, name, local); err != nil {
			return result, fmt.Errorf("download %s: %w", name, err)
		}
		result.Downloaded++
		s.logger.Debug().Str("granule", name).Msg("granule downloaded")
	}
	return result, nil
}

func (s *Syncer) fetchIndex(ctx context.Context) (*mirrorIndex, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.mirrorURL+"/index.json", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create index request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch index: status %d", resp.StatusCode)
	}

	var index mirrorIndex
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return &index, nil
}

func (s *Syncer) download(ctx context.Context, name, local string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.mirrorURL+"/"+name, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	// Write via a temp file so the store never sees a partial granule.
	tmp, err := os.CreateTemp(s.dir, ".sync-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), local)
}

// validGranuleName rejects index entries that could escape the data
// directory or that the store would not read anyway.
func validGranuleName(name string) bool {
	return strings.HasPrefix(name, "TEMPO_NO2_L3_") &&
		strings.HasSuffix(name, ".json") &&
		!strings.ContainsAny(name, "/\\")
}
