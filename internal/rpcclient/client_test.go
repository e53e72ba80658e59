package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// rpcHandler answers every request by calling fn with the decoded request.
func rpcHandler(t *testing.T, fn func(req request) response) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		resp := fn(req)
		resp.JSONRPC = "2.0"
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newTestClient(url string) *Client {
	nop := zerolog.Nop()
	return New(Config{Endpoint: url, Logger: &nop})
}

func TestCall_Result(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, func(req request) response {
		if req.JSONRPC != "2.0" || req.Method != "utxo_getByAddress" {
			t.Errorf("request = %+v", req)
		}
		params, _ := json.Marshal(req.Params)
		if string(params) != `{"address":"kgx1abc"}` {
			t.Errorf("params = %s", params)
		}
		return response{ID: req.ID, Result: json.RawMessage(`{"address":"kgx1abc","count":2}`)}
	}))
	defer srv.Close()

	var result struct {
		Address string `json:"address"`
		Count   int    `json:"count"`
	}
	c := newTestClient(srv.URL)
	if err := c.Call(context.Background(), "utxo_getByAddress", map[string]string{"address": "kgx1abc"}, &result); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result.Address != "kgx1abc" || result.Count != 2 {
		t.Errorf("result = %+v", result)
	}
	if c.Endpoint() != srv.URL {
		t.Errorf("endpoint = %s", c.Endpoint())
	}
}

func TestCall_IncrementsID(t *testing.T) {
	var ids []uint64
	srv := httptest.NewServer(rpcHandler(t, func(req request) response {
		ids = append(ids, req.ID)
		return response{ID: req.ID}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	for i := 0; i < 3; i++ {
		if err := c.Call(context.Background(), "ping", nil, nil); err != nil {
			t.Fatalf("Call: %v", err)
		}
	}
	if len(ids) != 3 || ids[0] == ids[1] || ids[1] == ids[2] {
		t.Errorf("ids = %v, want distinct", ids)
	}
}

func TestCall_RPCError(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, func(req request) response {
		return response{ID: req.ID, Error: &rpcError{Code: -32602, Message: "invalid address"}}
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Call(context.Background(), "utxo_getByAddress", nil, nil)
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RPCError, got %v", err)
	}
	if rpcErr.Code != -32602 || rpcErr.Message != "invalid address" {
		t.Errorf("rpcErr = %+v", rpcErr)
	}
	if rpcErr.Error() != "rpc error -32602: invalid address" {
		t.Errorf("Error() = %q", rpcErr.Error())
	}
}

func TestCall_IDMismatch(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, func(req request) response {
		return response{ID: req.ID + 100}
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Call(context.Background(), "ping", nil, nil)
	if !errors.Is(err, ErrIDMismatch) {
		t.Errorf("expected ErrIDMismatch, got %v", err)
	}
}

func TestCall_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Call(context.Background(), "ping", nil, nil)
	if err == nil || err.Error() != "http status 502" {
		t.Errorf("err = %v, want http status 502", err)
	}
}

func TestCall_BadResult(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, func(req request) response {
		return response{ID: req.ID, Result: json.RawMessage(`"not an object"`)}
	}))
	defer srv.Close()

	var out struct{ X int }
	if err := newTestClient(srv.URL).Call(context.Background(), "ping", nil, &out); err == nil {
		t.Error("expected decode error")
	}
}

func TestCall_ContextCanceled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := newTestClient(srv.URL).Call(ctx, "ping", nil, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestNew_DefaultTimeout(t *testing.T) {
	c := New(Config{Endpoint: "http://127.0.0.1:1"})
	if c.http.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.http.Timeout, DefaultTimeout)
	}
}
