package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"trading-gateway/internal/core/domain"
	"trading-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// HTTPRateSource fetches the full price table from an external endpoint
// returning `{"SOL": "103.42", ...}` JSON. Every call goes to the
// network; callers wrap it in the caching rate service for last-known-good
// behavior.
type HTTPRateSource struct {
	url    string
	client *http.Client
}

// NewHTTPRateSource creates an HTTP-polling rate source. The client's
// timeout bounds each fetch in addition to the caller's context.
func NewHTTPRateSource(url string, client *http.Client) *HTTPRateSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRateSource{url: url, client: client}
}

// Price implements ports.RateSource.
func (s *HTTPRateSource) Price(ctx context.Context, asset string) (decimal.Decimal, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	p, ok := snapshot[domain.NormalizeAssetCode(asset)]
	if !ok {
		return decimal.Zero, apperror.ErrUnknownAsset(asset)
	}
	return p, nil
}

// Snapshot implements ports.RateSource.
func (s *HTTPRateSource) Snapshot(ctx context.Context) (map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building rate feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching rate feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading rate feed body: %w", err)
	}

	var raw map[string]json.Number
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding rate feed body: %w", err)
	}

	out := make(map[string]decimal.Decimal, len(raw))
	for code, num := range raw {
		p, err := decimal.NewFromString(num.String())
		if err != nil {
			return nil, fmt.Errorf("parsing price for %s: %w", code, err)
		}
		if p.Sign() <= 0 {
			continue // skip bad ticks rather than fail the snapshot
		}
		out[domain.NormalizeAssetCode(code)] = p
	}
	return out, nil
}

const defaultPollInterval = 5 * time.Second

// HTTPPollWorker periodically refreshes a StaticRateSource table from an
// HTTPRateSource. The table stays the rate source the rest of the system
// reads, so a request never pays a network round trip; a failed poll
// keeps the previous prices in place.
type HTTPPollWorker struct {
	source   *HTTPRateSource
	table    *StaticRateSource
	interval time.Duration
	log      zerolog.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewHTTPPollWorker creates a worker polling source into table every
// interval.
func NewHTTPPollWorker(source *HTTPRateSource, table *StaticRateSource, interval time.Duration, log zerolog.Logger) *HTTPPollWorker {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &HTTPPollWorker{source: source, table: table, interval: interval, log: log}
}

// Start fetches once immediately, then launches the poll loop in the
// background.
func (w *HTTPPollWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.refresh(ctx)
	w.wg.Add(1)
	go w.runLoop(ctx)
}

// Stop terminates the worker and waits for the loop to exit.
func (w *HTTPPollWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *HTTPPollWorker) runLoop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *HTTPPollWorker) refresh(ctx context.Context) {
	snapshot, err := w.source.Snapshot(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Warn().Err(err).Str("url", w.source.url).Msg("price poll failed, keeping previous table")
		}
		return
	}
	for asset, price := range snapshot {
		w.table.SetPrice(asset, price)
	}
}
