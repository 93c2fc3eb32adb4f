package treedata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/urbancanopy/shadowcast/internal/logger"
)

// HTTPSource queries a REST-style record service. Endpoints:
//
//	GET {base}/trees?bbox=minLon,minLat,maxLon,maxLat&limit=N
//	GET {base}/buildings?bbox=...&limit=N
//
// both returning GeoJSON feature collections in the catalog format.
type HTTPSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPSource creates a source for the given base URL. timeout bounds each
// request; apiKey may be empty.
func NewHTTPSource(baseURL string, apiKey string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// TreesWithin implements Source.
func (s *HTTPSource) TreesWithin(ctx context.Context, bound orb.Bound, limit int) ([]Tree, error) {
	data, err := s.get(ctx, "trees", bound, limit)
	if err != nil {
		return nil, err
	}
	trees, _, err := DecodeCatalog(data)
	return trees, err
}

// BuildingsWithin implements Source.
func (s *HTTPSource) BuildingsWithin(ctx context.Context, bound orb.Bound, limit int) ([]Building, error) {
	data, err := s.get(ctx, "buildings", bound, limit)
	if err != nil {
		return nil, err
	}
	_, buildings, err := DecodeCatalog(data)
	return buildings, err
}

func (s *HTTPSource) get(ctx context.Context, kind string, bound orb.Bound, limit int) ([]byte, error) {
	q := url.Values{}
	q.Set("bbox", fmt.Sprintf("%f,%f,%f,%f", bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1]))
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if s.apiKey != "" {
		q.Set("key", s.apiKey)
	}

	u := s.baseURL + "/" + kind + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", kind, err)
	}

	t0 := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s fetch: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%s fetch: unexpected status %s", kind, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s fetch: reading body: %w", kind, err)
	}

	logger.Debug("record fetch",
		zap.String("kind", kind),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(t0)),
	)
	return body, nil
}
