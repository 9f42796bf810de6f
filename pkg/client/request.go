package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/promorang/promorang-cli/pkg/api"
)

const maxResponseBody = 8 << 20

// ErrEmptyPath is returned when a verb is called without a path.
var ErrEmptyPath = errors.New("client: request path must not be empty")

// ErrNoData is returned by Decode when the response carried no JSON body.
var ErrNoData = errors.New("client: response has no data")

// RawResponse is the result type of every verb.
type RawResponse = api.Response[json.RawMessage]

// RequestOption overrides per-request behavior.
type RequestOption func(*requestConfig)

type requestConfig struct {
	headers     http.Header
	query       url.Values
	credentials bool
}

// WithHeader sets a header, overriding defaults and auth headers.
func WithHeader(key, value string) RequestOption {
	return func(rc *requestConfig) {
		if rc.headers == nil {
			rc.headers = http.Header{}
		}
		rc.headers.Set(key, value)
	}
}

// WithHeaders merges h into the request headers; h wins on conflicts.
func WithHeaders(h http.Header) RequestOption {
	return func(rc *requestConfig) {
		if rc.headers == nil {
			rc.headers = http.Header{}
		}
		for k, vs := range h {
			rc.headers.Del(k)
			for _, v := range vs {
				rc.headers.Add(k, v)
			}
		}
	}
}

// WithCredentials controls whether cookies are sent. They are by default.
func WithCredentials(include bool) RequestOption {
	return func(rc *requestConfig) {
		rc.credentials = include
	}
}

// WithQuery appends query parameters to the request URL.
func WithQuery(q url.Values) RequestOption {
	return func(rc *requestConfig) {
		rc.query = q
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*RawResponse, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*RawResponse, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*RawResponse, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*RawResponse, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Do executes a request. Any non-2xx response or transport failure is
// returned as an *api.Error.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*RawResponse, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}

	rc := requestConfig{credentials: true}
	for _, opt := range opts {
		opt(&rc)
	}

	enc, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, rc.query), enc.reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = c.buildHeaders(ctx, rc.headers, enc.multipartType)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, api.NewNetworkError(err)
		}
	}

	hc := c.httpClient
	if !rc.credentials && hc.Jar != nil {
		noJar := *hc
		noJar.Jar = nil
		hc = &noJar
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debugf("%s %s failed after %s: %v", method, path, time.Since(start), err)
		return nil, api.NewNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		// A body that cannot be read is treated as absent.
		raw = nil
	}

	c.log.Debugf("%s %s -> %d in %s (request_id=%s)",
		method, path, resp.StatusCode, time.Since(start), req.Header.Get("X-Request-ID"))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp, raw)
	}

	out := &RawResponse{Status: resp.StatusCode}
	if data := parseJSON(raw); data != nil {
		out.Data = &data
	}
	return out, nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}
	return u
}

// buildHeaders applies defaults, then auth headers, then caller overrides.
func (c *Client) buildHeaders(ctx context.Context, overrides http.Header, multipartType string) http.Header {
	h := http.Header{}
	if multipartType == "" {
		h.Set("Content-Type", "application/json")
	}
	h.Set("Accept", "application/json")
	h.Set("X-Request-ID", uuid.NewString())

	if c.authHeaders != nil {
		replace(h, c.authHeaders(ctx))
	}
	replace(h, overrides)

	if multipartType != "" && h.Get("Content-Type") == "" {
		h.Set("Content-Type", multipartType)
	}
	return h
}

func replace(dst, src http.Header) {
	for k, vs := range src {
		dst.Del(k)
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

func parseJSON(raw []byte) json.RawMessage {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || !gjson.Valid(trimmed) {
		return nil
	}
	return json.RawMessage(trimmed)
}

// errorFromResponse builds an *api.Error from the error envelope
// {"error":{"code","message","details"}}, tolerating {"error":"text"} and a
// top-level "message".
func errorFromResponse(resp *http.Response, raw []byte) *api.Error {
	apiErr := &api.Error{
		Code:   api.ErrUnknown,
		Status: resp.StatusCode,
	}

	if data := parseJSON(raw); data != nil {
		doc := gjson.ParseBytes(data)
		env := doc.Get("error")
		switch {
		case env.IsObject():
			if code := env.Get("code"); code.Exists() && code.String() != "" {
				apiErr.Code = code.String()
			}
			apiErr.Message = env.Get("message").String()
			if d := env.Get("details"); d.Exists() && d.Type != gjson.Null {
				apiErr.Details = detailsFrom(d)
			}
		case env.Type == gjson.String:
			apiErr.Message = env.String()
		}
		if apiErr.Message == "" && doc.IsObject() {
			apiErr.Message = doc.Get("message").String()
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = statusText(resp)
	}
	return apiErr
}

func detailsFrom(d gjson.Result) map[string]any {
	if m, ok := d.Value().(map[string]any); ok {
		return m
	}
	return map[string]any{"value": d.Value()}
}

func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode))); text != "" {
		return text
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("Request failed with status %d", resp.StatusCode)
}

// Decode unmarshals the data of a response into T.
func Decode[T any](resp *RawResponse) (T, error) {
	var out T
	if resp == nil || resp.Data == nil {
		return out, ErrNoData
	}
	if err := json.Unmarshal(*resp.Data, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
