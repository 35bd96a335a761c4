package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	"go.uber.org/zap"
)

// rpcRequest is the JSON-RPC 2.0 frame posted to the /jsonrpc endpoint.
type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int       `json:"id"`
}

type rpcParams struct {
	Service string        `json:"service"`
	Method  string        `json:"method"`
	Args    []interface{} `json:"args"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcErrorBody   `json:"error"`
}

type rpcErrorBody struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Data    *rpcErrorData `json:"data"`
}

type rpcErrorData struct {
	Message string `json:"message"`
}

// call issues a single JSON-RPC request and returns the decoded result
// field verbatim. One POST per call; the http.Client timeout is the only
// bound and there is no retry.
func (c *Client) call(ctx context.Context, service, method string, args []interface{}) (interface{}, error) {
	if args == nil {
		args = []interface{}{}
	}
	frame := rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		// Correlation id; randomized per call so concurrent requests are
		// distinguishable in server logs.
		ID: rand.Intn(999999) + 1,
	}

	body, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", ErrInvalidResponse, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("RPC transport failure",
			zap.Error(err),
			zap.String("service", service),
			zap.String("method", method),
		)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("RPC endpoint returned non-2xx status",
			zap.Int("status", resp.StatusCode),
			zap.String("service", service),
			zap.String("method", method),
		)
		return nil, fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	var decoded rpcResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if decoded.Error != nil {
		rpcErr := &RPCError{
			Code:    decoded.Error.Code,
			Message: decoded.Error.Message,
		}
		if decoded.Error.Data != nil {
			rpcErr.DataMessage = decoded.Error.Data.Message
		}
		c.logger.Debug("RPC server error",
			zap.String("service", service),
			zap.String("method", method),
			zap.String("message", rpcErr.Detail()),
		)
		return nil, rpcErr
	}

	if decoded.Result == nil {
		return nil, nil
	}
	var result interface{}
	if err := json.Unmarshal(decoded.Result, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return result, nil
}
