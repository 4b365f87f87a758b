// Package client は rental API の HTTP クライアントと，
// サーバーが行わない集計（人気タイトル・スタッフ別売上）を提供する。
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"dvd-rental-backend/internal/rentals"
)

const DefaultBaseURL = "http://localhost:8080"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError はサーバーが返した {"error":{code,message}} を表す
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Rent(ctx context.Context, in rentals.CreateRentalRequest) (rentals.RentalResponse, error) {
	var out rentals.RentalResponse
	err := c.do(ctx, http.MethodPost, "/rentar", in, http.StatusCreated, &out)
	return out, err
}

func (c *Client) Return(ctx context.Context, id int64) (rentals.ReturnResponse, error) {
	var out rentals.ReturnResponse
	err := c.do(ctx, http.MethodPut, "/devolver/"+strconv.FormatInt(id, 10), nil, http.StatusOK, &out)
	return out, err
}

func (c *Client) Cancel(ctx context.Context, id int64) (rentals.CancelResponse, error) {
	var out rentals.CancelResponse
	err := c.do(ctx, http.MethodDelete, "/cancelar/"+strconv.FormatInt(id, 10), nil, http.StatusOK, &out)
	return out, err
}

func (c *Client) ByCustomer(ctx context.Context, customer string) ([]rentals.RentalResponse, error) {
	return c.list(ctx, "/reporte/cliente/"+url.PathEscape(customer))
}

func (c *Client) Pending(ctx context.Context) ([]rentals.RentalResponse, error) {
	return c.list(ctx, "/reporte/pendientes")
}

func (c *Client) All(ctx context.Context) ([]rentals.RentalResponse, error) {
	return c.list(ctx, "/reporte/general")
}

func (c *Client) list(ctx context.Context, path string) ([]rentals.RentalResponse, error) {
	out := []rentals.RentalResponse{}
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != want {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Error *APIError `json:"error"`
		}
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error != nil {
			apiErr.Code, apiErr.Message = envelope.Error.Code, envelope.Error.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
