package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/bitfsorg/greenbond-go/identity"
)

// JSON-RPC methods exposed by a token ledger node.
const (
	methodTransfer     = "token_transfer"
	methodTransferFrom = "token_transferFrom"
	methodBalanceOf    = "token_balanceOf"
)

const (
	defaultRPCTimeout = 30 * time.Second
	maxErrorBody      = 1 << 10
)

// RPCLedger is a JSON-RPC 1.0 client for a remote token ledger node.
// The node authenticates the client as the custody account; every
// Transfer and TransferFrom is executed with custody as the caller.
type RPCLedger struct {
	endpoint string
	user     string
	password string
	http     *http.Client
	seq      atomic.Int64
}

var _ TokenLedger = (*RPCLedger)(nil)

type call struct {
	Version string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type reply struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RemoteError    `json:"error"`
}

// RemoteError is an error object returned by the token ledger node.
type RemoteError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("settlement: node error %d: %s", e.Code, e.Message)
}

// NewRPCLedger creates a token ledger client. Requests carry HTTP Basic
// Auth when cfg.User is set.
func NewRPCLedger(cfg RPCConfig) *RPCLedger {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRPCTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 4
	return &RPCLedger{
		endpoint: cfg.URL,
		user:     cfg.User,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout, Transport: transport},
	}
}

// Call invokes method on the node and decodes its result into out.
//
// Transport failures and non-2xx statuses wrap ErrConnectionFailed, and
// undecodable or mismatched replies wrap ErrInvalidResponse. An error
// object from the node is returned as *RemoteError.
func (c *RPCLedger) Call(ctx context.Context, method string, params []any, out any) error {
	if params == nil {
		params = []any{}
	}
	id := c.seq.Add(1)
	payload, err := json.Marshal(call{Version: "1.0", ID: id, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("settlement: encode %s: %w", method, err)
	}

	raw, err := c.post(ctx, payload)
	if err != nil {
		return err
	}
	defer func() { _ = raw.Close() }()

	var r reply
	if err := json.NewDecoder(raw).Decode(&r); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidResponse, method, err)
	}
	switch {
	case r.ID != id:
		return fmt.Errorf("%w: %s: reply id %d for request %d", ErrInvalidResponse, method, r.ID, id)
	case r.Error != nil:
		return r.Error
	case out == nil:
		return nil
	case len(r.Result) == 0 || bytes.Equal(r.Result, []byte("null")):
		return fmt.Errorf("%w: %s: no result", ErrInvalidResponse, method)
	}
	if err := json.Unmarshal(r.Result, out); err != nil {
		return fmt.Errorf("%w: %s result: %w", ErrInvalidResponse, method, err)
	}
	return nil
}

// post sends payload and returns the body of a 2xx reply.
func (c *RPCLedger) post(ctx context.Context, payload []byte) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("settlement: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	if resp.StatusCode/100 != 2 {
		defer func() { _ = resp.Body.Close() }()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", ErrConnectionFailed, resp.StatusCode, bytes.TrimSpace(msg))
	}
	return resp.Body, nil
}

// Transfer sends amount from custody to the given account.
func (c *RPCLedger) Transfer(ctx context.Context, to identity.Address, amount uint64) (bool, error) {
	var ok bool
	err := c.Call(ctx, methodTransfer, []any{to.String(), amount}, &ok)
	return ok && err == nil, err
}

// TransferFrom spends custody's allowance on from, crediting to.
func (c *RPCLedger) TransferFrom(ctx context.Context, from, to identity.Address, amount uint64) (bool, error) {
	var ok bool
	err := c.Call(ctx, methodTransferFrom, []any{from.String(), to.String(), amount}, &ok)
	return ok && err == nil, err
}

// BalanceOf returns the token balance of owner.
func (c *RPCLedger) BalanceOf(ctx context.Context, owner identity.Address) (uint64, error) {
	var bal uint64
	if err := c.Call(ctx, methodBalanceOf, []any{owner.String()}, &bal); err != nil {
		return 0, err
	}
	return bal, nil
}
