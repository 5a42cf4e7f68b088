package influxdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nerrad567/movie-api/internal/infrastructure/config"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second

	// Batch defaults for the low-volume account_events stream.
	defaultBatchSize     = 100
	defaultFlushInterval = 10 * time.Second
)

// Client counts account events in an InfluxDB bucket.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
//   - Writes are batched and never block a request.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI

	closed atomic.Bool

	mu      sync.Mutex
	onError func(err error)
}

// Connect creates a client for cfg and verifies the server answers a ping.
//
// Parameters:
//   - cfg: influxdb section of config.yaml
//
// Returns:
//   - *Client: Client ready for WriteAccountEvent
//   - error: ErrDisabled when turned off in config, ErrConnectionFailed otherwise
func Connect(cfg config.InfluxDBConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, writeOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := ping(ctx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	c := &Client{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
	}
	go c.reportWriteErrors()

	return c, nil
}

// writeOptions maps the batch settings, applying defaults to unset values.
func writeOptions(cfg config.InfluxDBConfig) *influxdb2.Options {
	batchSize := defaultBatchSize
	if cfg.BatchSize > 0 {
		batchSize = cfg.BatchSize
	}
	flushInterval := defaultFlushInterval
	if cfg.FlushInterval > 0 {
		flushInterval = time.Duration(cfg.FlushInterval) * time.Second
	}

	// #nosec G115 -- both values are positive
	return influxdb2.DefaultOptions().
		SetBatchSize(uint(batchSize)).
		SetFlushInterval(uint(flushInterval.Milliseconds()))
}

func ping(ctx context.Context, client influxdb2.Client) error {
	healthy, err := client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if !healthy {
		return errors.New("server not healthy")
	}
	return nil
}

// reportWriteErrors forwards batch failures until the write API closes.
func (c *Client) reportWriteErrors() {
	for err := range c.writeAPI.Errors() {
		c.mu.Lock()
		callback := c.onError
		c.mu.Unlock()

		if callback != nil {
			callback(err)
		}
	}
}

// SetOnError sets the callback for failed batch writes. Account events in a
// failed batch are lost; the service keeps running.
func (c *Client) SetOnError(callback func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = callback
}

// Close writes any buffered events and releases the client. Later writes are
// dropped.
func (c *Client) Close() error {
	if c.client == nil || c.closed.Swap(true) {
		return nil
	}
	c.writeAPI.Flush()
	c.client.Close()
	return nil
}

// IsConnected reports whether the client is open.
func (c *Client) IsConnected() bool {
	return c.client != nil && !c.closed.Load()
}

// HealthCheck pings the server. It backs the influxdb entry of GET /health.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	checkCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := ping(checkCtx, c.client); err != nil {
		return fmt.Errorf("influxdb health check: %w", err)
	}
	return nil
}
