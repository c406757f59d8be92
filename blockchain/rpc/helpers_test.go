package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/jarcoal/httpmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "http://node.test:41678/"

type handlerFunc func(params []json.RawMessage) (interface{}, *btcjson.RPCError)

// fakeNode answers JSON-RPC requests from a method table and can simulate
// connection failures.
type fakeNode struct {
	t        *testing.T
	mu       sync.Mutex
	methods  map[string]handlerFunc
	failNext int
	status   int
	attempts int
	calls    map[string]int
	auth     [2]string
}

func newFakeNode(t *testing.T) *fakeNode {
	n := &fakeNode{
		t:       t,
		methods: make(map[string]handlerFunc),
		calls:   make(map[string]int),
	}

	n.handle(MethodBlockCount, func([]json.RawMessage) (interface{}, *btcjson.RPCError) {
		return 200, nil
	})

	return n
}

func (n *fakeNode) handle(method string, fn handlerFunc) {
	n.mu.Lock()
	n.methods[method] = fn
	n.mu.Unlock()
}

func (n *fakeNode) fail(times int) {
	n.mu.Lock()
	n.failNext = times
	n.mu.Unlock()
}

func (n *fakeNode) respond(req *http.Request) (*http.Response, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.attempts++
	if n.failNext > 0 {
		n.failNext--
		return nil, errors.New("dial tcp 127.0.0.1:41678: connect: connection refused")
	}

	if n.status != 0 {
		return httpmock.NewStringResponse(n.status, "busy"), nil
	}

	user, pass, _ := req.BasicAuth()
	n.auth = [2]string{user, pass}

	body, err := io.ReadAll(req.Body)
	require.NoError(n.t, err)

	var r struct {
		ID     uint64            `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	require.NoError(n.t, json.Unmarshal(body, &r))

	n.calls[r.Method]++

	fn, ok := n.methods[r.Method]
	if !ok {
		return envelope(http.StatusNotFound, r.ID, nil, &btcjson.RPCError{Code: -32601, Message: "Method not found"})
	}

	result, rpcErr := fn(r.Params)
	if rpcErr != nil {
		return envelope(http.StatusInternalServerError, r.ID, nil, rpcErr)
	}

	return envelope(http.StatusOK, r.ID, result, nil)
}

func envelope(status int, id uint64, result interface{}, rpcErr *btcjson.RPCError) (*http.Response, error) {
	body, err := json.Marshal(map[string]interface{}{
		"result": result,
		"error":  rpcErr,
		"id":     id,
	})
	if err != nil {
		return nil, err
	}

	return httpmock.NewBytesResponse(status, body), nil
}

func newTestClient(t *testing.T, node *fakeNode, mutate func(*Config)) *Client {
	mt := httpmock.NewMockTransport()
	mt.RegisterResponder(http.MethodPost, testEndpoint, node.respond)

	cfg := Config{
		Endpoint:   testEndpoint,
		User:       "spreadcoinuser",
		Password:   "letmein",
		Retries:    DefaultRetries,
		Backoff:    NoDelay(),
		HTTPClient: &http.Client{Transport: mt},
	}

	if mutate != nil {
		mutate(&cfg)
	}

	c, err := New(cfg)
	require.NoError(t, err)

	return c
}

func openTestClient(t *testing.T, node *fakeNode, mutate func(*Config)) *Client {
	c := newTestClient(t, node, mutate)
	require.NoError(t, c.Open(testContext(t)))

	node.mu.Lock()
	node.attempts = 0
	node.calls = make(map[string]int)
	node.mu.Unlock()

	t.Cleanup(func() { _ = c.Close() })

	return c
}

func hash(n int) string {
	return fmt.Sprintf("%064x", n)
}
