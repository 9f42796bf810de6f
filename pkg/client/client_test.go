package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promorang/promorang-cli/pkg/api"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestNew(t *testing.T) {
	c := New("http://localhost:3001/")

	assert.Equal(t, "http://localhost:3001", c.BaseURL())
	assert.NotNil(t, c.httpClient.Jar, "cookie jar should be set by default")
	assert.Zero(t, c.httpClient.Timeout, "no client timeout by default")
	assert.Nil(t, c.limiter)
}

func TestNew_Options(t *testing.T) {
	c := New("http://x", WithTimeout(5*time.Second), WithRateLimit(2, 0))

	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	require.NotNil(t, c.limiter)
	assert.Equal(t, 1, c.limiter.Burst())
}

func TestClient_BuySharesScenario(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/content/buy-shares", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 42, body["content_id"])
		assert.Equal(t, 3, body["shares_count"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	})

	c := New(srv.URL)
	resp, err := c.Post(context.Background(), "/api/content/buy-shares", map[string]int{
		"content_id":   42,
		"shares_count": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Nil(t, resp.Error)

	out, err := Decode[struct {
		Success bool `json:"success"`
	}](resp)
	require.NoError(t, err)
	assert.True(t, out.Success)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"X","message":"Y","details":{"field":"title"}}}`))
	})

	_, err := New(srv.URL).Get(context.Background(), "/api/content/1")
	require.Error(t, err)

	apiErr, ok := api.AsError(err)
	require.True(t, ok, "expected *api.Error, got %T", err)
	assert.Equal(t, "X", apiErr.Code)
	assert.Equal(t, "Y", apiErr.Message)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "title", apiErr.Details["field"])
}

func TestClient_ErrorWithoutEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantCode    string
		wantMessage string
	}{
		{"empty body", http.StatusNotFound, "", api.ErrUnknown, "Not Found"},
		{"html body", http.StatusBadGateway, "<html>bad gateway</html>", api.ErrUnknown, "Bad Gateway"},
		{"envelope without code", http.StatusBadRequest, `{"error":{"message":"bad title"}}`, api.ErrUnknown, "bad title"},
		{"string error", http.StatusUnauthorized, `{"error":"unauthorized"}`, api.ErrUnknown, "unauthorized"},
		{"top-level message", http.StatusConflict, `{"message":"already claimed"}`, api.ErrUnknown, "already claimed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := New(srv.URL).Get(context.Background(), "/api/x")
			apiErr, ok := api.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := New(addr).Get(context.Background(), "/api/content/1")
	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, api.ErrNetwork, apiErr.Code)
	assert.Equal(t, 0, apiErr.Status)
	assert.True(t, apiErr.IsNetwork())
	assert.NotEmpty(t, apiErr.Details["cause"])
}

type failingTransport struct{ err error }

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, f.err
}

func TestClient_NetworkErrorPreservesCause(t *testing.T) {
	c := New("http://promorang.test", WithHTTPClient(&http.Client{
		Transport: failingTransport{err: errors.New("dial tcp: lookup promorang.test: no such host")},
	}))

	_, err := c.Post(context.Background(), "/api/content/buy-shares", map[string]int{"content_id": 1})
	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, api.ErrNetwork, apiErr.Code)
	assert.Equal(t, 0, apiErr.Status)
	assert.Contains(t, apiErr.Details["cause"], "no such host")
}

func TestClient_HeaderPrecedence(t *testing.T) {
	var got http.Header
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	})

	auth := func(context.Context) http.Header {
		h := http.Header{}
		h.Set("Authorization", "Bearer session-token")
		h.Set("Content-Type", "application/vnd.auth+json")
		h.Set("X-Session", "s1")
		return h
	}

	c := New(srv.URL, WithAuthHeaders(auth))

	t.Run("auth overrides defaults", func(t *testing.T) {
		_, err := c.Get(context.Background(), "/api/users/me")
		require.NoError(t, err)
		assert.Equal(t, "Bearer session-token", got.Get("Authorization"))
		assert.Equal(t, "application/vnd.auth+json", got.Get("Content-Type"))
		assert.NotEmpty(t, got.Get("X-Request-ID"))
	})

	t.Run("caller overrides auth and defaults", func(t *testing.T) {
		_, err := c.Get(context.Background(), "/api/users/me",
			WithHeader("Authorization", "Bearer override"),
			WithHeader("content-type", "text/plain"),
			WithHeader("X-Request-ID", "req-1"),
		)
		require.NoError(t, err)
		assert.Equal(t, "Bearer override", got.Get("Authorization"))
		assert.Equal(t, "text/plain", got.Get("Content-Type"))
		assert.Equal(t, "req-1", got.Get("X-Request-ID"))
		assert.Equal(t, "s1", got.Get("X-Session"))
		assert.Len(t, got.Values("Authorization"), 1)
	})
}

func TestClient_BodyPassthrough(t *testing.T) {
	var gotBody, gotType string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	})
	c := New(srv.URL)
	ctx := context.Background()

	tests := []struct {
		name string
		body any
		want string
	}{
		{"string", `{"already":"json"}`, `{"already":"json"}`},
		{"bytes", []byte("raw-bytes"), "raw-bytes"},
		{"reader", strings.NewReader("from-reader"), "from-reader"},
		{"url values", url.Values{"a": {"1"}, "b": {"2"}}, "a=1&b=2"},
		{"struct", struct {
			Title string `json:"title"`
		}{"Hi"}, `{"title":"Hi"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Put(ctx, "/api/x", tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, gotBody)
			assert.Equal(t, "application/json", gotType)
		})
	}
}

func TestClient_FormDataOmitsJSONContentType(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="),
			"Content-Type = %q", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "avatar", r.FormValue("kind"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "me.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(b))

		w.Write([]byte(`{"url":"https://cdn.promorang.co/me.png"}`))
	})

	form := NewFormData().Set("kind", "avatar").File("file", "me.png", strings.NewReader("PNGDATA"))
	resp, err := New(srv.URL).Post(context.Background(), "/api/users/me/avatar", form)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestClient_Credentials(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
			w.WriteHeader(http.StatusNoContent)
			return
		}
		cookie, err := r.Cookie("sid")
		if err != nil {
			w.Write([]byte(`{"cookie":""}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"cookie": cookie.Value})
	})

	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Post(ctx, "/login", nil)
	require.NoError(t, err)

	resp, err := c.Get(ctx, "/whoami")
	require.NoError(t, err)
	out, err := Decode[map[string]string](resp)
	require.NoError(t, err)
	assert.Equal(t, "abc", out["cookie"])

	resp, err = c.Get(ctx, "/whoami", WithCredentials(false))
	require.NoError(t, err)
	out, err = Decode[map[string]string](resp)
	require.NoError(t, err)
	assert.Empty(t, out["cookie"])
}

func TestClient_NonJSONSuccessHasNoData(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	resp, err := New(srv.URL).Delete(context.Background(), "/api/content/1/like")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Nil(t, resp.Data)

	_, err = Decode[map[string]any](resp)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestClient_EmptyPath(t *testing.T) {
	c := New("http://localhost")
	_, err := c.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestClient_PathAndQuery(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/content", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`[]`))
	})

	_, err := New(srv.URL).Get(context.Background(), "api/content", WithQuery(url.Values{"limit": {"10"}}))
	require.NoError(t, err)
}

func TestClient_RateLimitCancelledWaitIsNetworkError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	c := New(srv.URL, WithRateLimit(0.001, 1))
	_, err := c.Get(context.Background(), "/first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, "/second")
	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, api.ErrNetwork, apiErr.Code)
}

func TestClient_NoRetry(t *testing.T) {
	calls := 0
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := New(srv.URL).Get(context.Background(), "/api/content/1")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
