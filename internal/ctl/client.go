package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

// Client talks to a running samjd daemon.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds a client for the given daemon address. Accepts either a
// full URL or a bare host:port.
func NewClient(addr string) *Client {
	base := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		if strings.HasPrefix(base, ":") {
			base = "localhost" + base
		}
		base = "http://" + base
	}
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr types.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Models(ctx context.Context) (types.ModelsResponse, error) {
	var resp types.ModelsResponse
	err := c.do(ctx, http.MethodGet, "/models", nil, &resp)
	return resp, err
}

func (c *Client) Status(ctx context.Context) (types.StatusResponse, error) {
	var resp types.StatusResponse
	err := c.do(ctx, http.MethodGet, "/status", nil, &resp)
	return resp, err
}

func (c *Client) Open(ctx context.Context, model, imagePath string) (types.SessionResponse, error) {
	var resp types.SessionResponse
	err := c.do(ctx, http.MethodPost, "/sessions",
		types.OpenSessionRequest{Model: model, ImagePath: imagePath}, &resp)
	return resp, err
}

func (c *Client) Points(ctx context.Context, id string, req types.PointsRequest) (types.SegmentationResponse, error) {
	var resp types.SegmentationResponse
	err := c.do(ctx, http.MethodPost, "/sessions/"+id+"/points", req, &resp)
	return resp, err
}

func (c *Client) Box(ctx context.Context, id string, req types.BoxRequest) (types.SegmentationResponse, error) {
	var resp types.SegmentationResponse
	err := c.do(ctx, http.MethodPost, "/sessions/"+id+"/box", req, &resp)
	return resp, err
}

func (c *Client) Mask(ctx context.Context, id string, req types.MaskRequest) (types.SegmentationResponse, error) {
	var resp types.SegmentationResponse
	err := c.do(ctx, http.MethodPost, "/sessions/"+id+"/mask", req, &resp)
	return resp, err
}

func (c *Client) Close(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/sessions/"+id, nil, nil)
}
