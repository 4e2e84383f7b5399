package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	wsHandshakeTimeout = 10 * time.Second
	wsReadTimeout      = 60 * time.Second
	wsMaxBackoff       = 30 * time.Second
)

// priceTick is a single streamed update: {"asset": "SOL", "price": "104.1"}.
type priceTick struct {
	Asset string      `json:"asset"`
	Price json.Number `json:"price"`
}

// WSFeedWorker consumes a streaming price feed over WebSocket and
// applies each tick to a StaticRateSource table. The table remains the
// rate source the rest of the system reads; the worker only keeps it
// fresh. Disconnects trigger reconnection with exponential backoff.
type WSFeedWorker struct {
	url    string
	table  *StaticRateSource
	log    zerolog.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWSFeedWorker creates a worker streaming into table.
func NewWSFeedWorker(url string, table *StaticRateSource, log zerolog.Logger) *WSFeedWorker {
	return &WSFeedWorker{url: url, table: table, log: log}
}

// Start launches the connection loop in the background.
func (w *WSFeedWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.runLoop(ctx)
}

// Stop terminates the worker and waits for the loop to exit.
func (w *WSFeedWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *WSFeedWorker) runLoop(ctx context.Context) {
	defer w.wg.Done()
	retry := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, err := w.connect(ctx)
		if err != nil {
			delay := backoffDelay(retry)
			retry++
			w.log.Warn().Err(err).Str("url", w.url).Dur("retry_in", delay).
				Msg("price feed connection failed")

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		}

		retry = 0
		w.log.Info().Str("url", w.url).Msg("price feed connected")
		w.readLoop(ctx, conn)
		_ = conn.Close()
	}
}

func (w *WSFeedWorker) connect(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: wsHandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, w.url, nil)
	return conn, err
}

func (w *WSFeedWorker) readLoop(ctx context.Context, conn *websocket.Conn) {
	// Unblock the read when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				w.log.Warn().Err(err).Msg("price feed read failed, reconnecting")
			}
			return
		}
		w.applyTick(msg)
	}
}

func (w *WSFeedWorker) applyTick(msg []byte) {
	var tick priceTick
	if err := json.Unmarshal(msg, &tick); err != nil || tick.Asset == "" {
		w.log.Debug().Err(err).Bytes("msg", msg).Msg("discarding malformed price tick")
		return
	}
	price, err := decimal.NewFromString(tick.Price.String())
	if err != nil {
		w.log.Debug().Err(err).Str("asset", tick.Asset).Msg("discarding unparseable price tick")
		return
	}
	w.table.SetPrice(tick.Asset, price)
}

// backoffDelay grows 1s, 2s, 4s... capped at wsMaxBackoff.
func backoffDelay(retry int) time.Duration {
	if retry > 5 {
		return wsMaxBackoff
	}
	d := time.Second << retry
	if d > wsMaxBackoff {
		return wsMaxBackoff
	}
	return d
}
