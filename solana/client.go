package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a minimal JSON-RPC client for the account queries this tool
// performs. It is safe for concurrent use.
type Client struct {
	url string
	hc  *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url: url,
		hc:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Account is the subset of account state the decoder cares about.
type Account struct {
	Owner      string
	Data       []byte
	Executable bool
	Lamports   uint64
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("solana: rpc error %d: %s", e.Code, e.Message)
}

type accountInfoResult struct {
	Value *struct {
		Data       []string `json:"data"`
		Executable bool     `json:"executable"`
		Lamports   uint64   `json:"lamports"`
		Owner      string   `json:"owner"`
	} `json:"value"`
}

// GetAccountInfo fetches an account with base64-encoded data.
// A missing account is reported as ErrAccountNotFound.
func (c *Client) GetAccountInfo(ctx context.Context, pubkey string) (*Account, error) {
	if _, err := DecodePubkey(pubkey); err != nil {
		return nil, err
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getAccountInfo",
		Params:  []any{pubkey, map[string]string{"encoding": "base64"}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solana: rpc request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("solana: rpc status %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var rr rpcResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return nil, fmt.Errorf("solana: malformed rpc response: %w", err)
	}
	if rr.Error != nil {
		return nil, rr.Error
	}

	var res accountInfoResult
	if err := json.Unmarshal(rr.Result, &res); err != nil {
		return nil, fmt.Errorf("solana: malformed account info: %w", err)
	}
	if res.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, pubkey)
	}
	if len(res.Value.Data) < 2 || res.Value.Data[1] != "base64" {
		return nil, fmt.Errorf("solana: unexpected account data encoding")
	}
	data, err := base64.StdEncoding.DecodeString(res.Value.Data[0])
	if err != nil {
		return nil, fmt.Errorf("solana: invalid account data base64: %w", err)
	}
	return &Account{
		Owner:      res.Value.Owner,
		Data:       data,
		Executable: res.Value.Executable,
		Lamports:   res.Value.Lamports,
	}, nil
}
