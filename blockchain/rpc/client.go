// Package rpc implements the JSON-RPC transport to the ledger node and
// parses its responses into typed blocks and transactions.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/shared/errs"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "rpc")

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// DefaultRetries is the number of attempts made for one call.
	DefaultRetries = 10
	// DefaultRetryDelay is the fixed pause between two attempts.
	DefaultRetryDelay = 10 * time.Second
)

var (
	// ErrClientClosed is returned by calls made after Close.
	ErrClientClosed = errors.New("rpc client is closed")
	// ErrClientNotOpen is returned by calls made before Open.
	ErrClientNotOpen = errors.New("rpc client is not open")
)

// Config of the node connection.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string

	// Endpoint overrides Host and Port with a complete URL.
	Endpoint string

	// Retries is the total number of attempts for a call failing at connection level.
	Retries int
	// RetryDelay is used by the default fixed backoff.
	RetryDelay time.Duration
	// Backoff overrides the fixed RetryDelay schedule.
	Backoff BackoffPolicy

	// Timeout bounds one HTTP round trip. Zero means no limit.
	Timeout time.Duration

	// TxDecode selects how Block obtains decoded transactions.
	TxDecode DecodeMode

	// HTTPClient replaces the default client, mostly for tests.
	HTTPClient *http.Client
}

type request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type response struct {
	Result json.RawMessage   `json:"result"`
	Error  *btcjson.RPCError `json:"error"`
	ID     interface{}       `json:"id"`
}

// Client is a JSON-RPC client of one ledger node. It is owned by a single
// walker and must be opened before use and closed afterwards.
type Client struct {
	cfg    Config
	url    string
	http   *http.Client
	policy BackoffPolicy

	id     uint64
	open   int32
	closed int32
	lock   sync.Mutex
}

// New creates a client with cfg. No connection is made until Open.
func New(cfg Config) (*Client, error) {
	if cfg.Retries <= 0 {
		cfg.Retries = DefaultRetries
	}

	if cfg.RetryDelay < 0 {
		return nil, errors.Errorf("negative retry delay %s", cfg.RetryDelay)
	}

	if cfg.TxDecode == "" {
		cfg.TxDecode = DecodeRaw
	}

	if !cfg.TxDecode.Valid() {
		return nil, errors.Errorf("unknown transaction decode mode %q", cfg.TxDecode)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		if cfg.Host == "" {
			return nil, errors.New("empty rpc host")
		}

		endpoint = "http://" + net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)) + "/"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	policy := cfg.Backoff
	if policy == nil {
		policy = FixedBackoff(cfg.RetryDelay)
	}

	c := &Client{
		cfg:    cfg,
		url:    endpoint,
		http:   httpClient,
		policy: policy,
	}

	return c, nil
}

// Open checks that the node answers and marks the client usable.
func (c *Client) Open(ctx context.Context) error {
	if atomic.LoadInt32(&c.closed) == 1 {
		return errs.Transport("open", ErrClientClosed)
	}

	atomic.StoreInt32(&c.open, 1)

	tip, err := c.BlockCount(ctx)
	if err != nil {
		atomic.StoreInt32(&c.open, 0)
		return err
	}

	log.WithField("endpoint", c.url).Infof("Connected to node with %d blocks.", tip)

	return nil
}

// Close releases idle connections. The client can't be used afterwards.
func (c *Client) Close() error {
	atomic.StoreInt32(&c.closed, 1)
	atomic.StoreInt32(&c.open, 0)
	c.http.CloseIdleConnections()

	return nil
}

// Endpoint returns the node URL.
func (c *Client) Endpoint() string {
	return c.url
}

// Call sends method with params and returns the raw result. Connection
// failures are retried according to the backoff policy; an error reported by
// the node is returned at once.
func (c *Client) Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if atomic.LoadInt32(&c.closed) == 1 {
		return nil, errs.Transport(method, ErrClientClosed)
	}

	if atomic.LoadInt32(&c.open) == 0 {
		return nil, errs.Transport(method, ErrClientNotOpen)
	}

	if params == nil {
		params = []interface{}{}
	}

	body, err := jsonAPI.Marshal(&request{
		JSONRPC: "1.0",
		ID:      atomic.AddUint64(&c.id, 1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, errs.Transport(method, errors.Wrap(err, "marshal request"))
	}

	start := time.Now()
	defer func() {
		rpcCallTime.WithLabelValues(method).Observe(float64(time.Since(start).Milliseconds()))
	}()

	status, payload, err := c.post(ctx, method, body)
	if err != nil {
		rpcCalls.WithLabelValues(method, "transport").Inc()
		return nil, err
	}

	if status != http.StatusOK && status != http.StatusInternalServerError {
		rpcCalls.WithLabelValues(method, "transport").Inc()
		return nil, errs.Transport(method, errors.Errorf("RPC connection failure: %d %s", status, http.StatusText(status)))
	}

	var res response
	if err := jsonAPI.Unmarshal(payload, &res); err != nil {
		rpcCalls.WithLabelValues(method, "transport").Inc()
		return nil, errs.Transport(method, errors.Wrapf(err, "malformed response with status %d", status))
	}

	if res.Error != nil {
		rpcCalls.WithLabelValues(method, "rpc").Inc()
		return nil, errs.RPC(method, res.Error)
	}

	if status == http.StatusInternalServerError {
		rpcCalls.WithLabelValues(method, "transport").Inc()
		return nil, errs.Transport(method, errors.New("server error without error payload"))
	}

	rpcCalls.WithLabelValues(method, "ok").Inc()

	return res.Result, nil
}

// post performs the HTTP exchange. Only this part is retried.
func (c *Client) post(ctx context.Context, method string, body []byte) (int, []byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	var status int
	var payload []byte
	attempts := 0

	operation := func() error {
		attempts++

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}

		req.Header.Set("Content-Type", "application/json")
		if c.cfg.User != "" || c.cfg.Password != "" {
			req.SetBasicAuth(c.cfg.User, c.cfg.Password)
		}

		res, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}

			return err
		}

		defer res.Body.Close()

		data, err := io.ReadAll(res.Body)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}

			return err
		}

		status = res.StatusCode
		payload = data

		return nil
	}

	notify := func(err error, wait time.Duration) {
		rpcRetries.WithLabelValues(method).Inc()
		log.WithError(err).Warnf("Couldn't connect for remote procedure call %s, will sleep for %s and then try again (%d more tries).",
			method, wait, c.cfg.Retries-attempts)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.policy(), uint64(c.cfg.Retries-1)), ctx)

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		if ctx.Err() != nil {
			return 0, nil, errs.Transport(method, errors.Wrap(ctx.Err(), "remote procedure call interrupted"))
		}

		return 0, nil, errs.Transport(method, errors.Wrapf(err, "failed to connect for remote procedure call after %d attempts", attempts))
	}

	if attempts > 1 {
		log.Infof("Connected for remote procedure call %s after retry.", method)
	}

	return status, payload, nil
}
