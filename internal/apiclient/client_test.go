package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"codeme-client/internal/auth"
	"codeme-client/internal/config"
	apperrors "codeme-client/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		APIBaseURL:     baseURL,
		APIV1Str:       "/api/v1",
		HTTPTimeoutSec: 5,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	state, err := auth.NewState(nil)
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, state.SetToken(token))
	}
	return New(testConfig(srv.URL), state)
}

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestDoJSON_SendsHeadersAndDecodes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/items/", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"first"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"1","name":"first"}`))
	}, "tok-123")

	var out item
	err := client.DoJSON(context.Background(), http.MethodPost, "/items/", map[string]string{"name": "first"}, &out,
		WithHeader("X-Extra", "yes"))
	require.NoError(t, err)
	assert.Equal(t, item{ID: "1", Name: "first"}, out)
}

func TestDo_WithoutTokenSendsNoAuthorization(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`[]`))
	}, "")

	var out []item
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/items/", nil, &out))
	assert.Empty(t, out)
}

func TestDo_TokenChangeIsPickedUp(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	state, err := auth.NewState(nil)
	require.NoError(t, err)
	client := New(testConfig(srv.URL), state)

	require.NoError(t, state.SetToken("a"))
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/ping", nil, nil))
	require.NoError(t, state.SetToken("b"))
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/ping", nil, nil))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Bearer a", "Bearer b"}, seen)
}

func TestDo_NoContentLeavesOutUntouched(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, "tok")

	out := item{ID: "keep"}
	require.NoError(t, client.Do(context.Background(), http.MethodDelete, "/items/1", nil, &out))
	assert.Equal(t, "keep", out.ID)
}

func TestDo_RequiredBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}, "tok")

	var out item
	err := client.Do(context.Background(), http.MethodPost, "/items", nil, &out, WithRequiredBody())
	require.Error(t, err)
	assert.True(t, apperrors.IsAPIKind(err, apperrors.KindDecode))

	assert.NoError(t, client.Do(context.Background(), http.MethodPost, "/items", nil, &out))
}

func TestDo_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    apperrors.ErrorKind
		wantMessage string
	}{
		{"fastapi detail string", http.StatusNotFound, `{"detail":"Group not found"}`, apperrors.KindNotFound, "Group not found"},
		{"fastapi validation list", http.StatusUnprocessableEntity,
			`{"detail":[{"loc":["body","group_id"],"msg":"field required","type":"value_error.missing"}]}`,
			apperrors.KindValidation, "group_id: field required"},
		{"error field", http.StatusConflict, `{"error":"duplicate link"}`, apperrors.KindConflict, "duplicate link"},
		{"raw body", http.StatusBadGateway, `upstream exploded`, apperrors.KindServer, "upstream exploded"},
		{"empty body", http.StatusUnauthorized, ``, apperrors.KindUnauthorized, "Unauthorized"},
		{"forbidden", http.StatusForbidden, `{"detail":"Not your group"}`, apperrors.KindForbidden, "Not your group"},
		{"too large", http.StatusRequestEntityTooLarge, `{"detail":"File too large"}`, apperrors.KindTooLarge, "File too large"},
		{"teapot", http.StatusTeapot, ``, apperrors.KindClient, "I'm a teapot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, "tok")

			out := item{ID: "untouched"}
			err := client.DoJSON(context.Background(), http.MethodPost, "/items/", map[string]string{}, &out)
			require.Error(t, err)

			apiErr, ok := apperrors.AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, http.MethodPost, apiErr.Method)
			assert.Equal(t, "/api/v1/items/", apiErr.Path)
			assert.Equal(t, "untouched", out.ID)
		})
	}
}

func TestDo_UndecodableSuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>login</html>`))
	}, "tok")

	var out item
	err := client.Do(context.Background(), http.MethodGet, "/items/1", nil, &out)
	assert.True(t, apperrors.IsAPIKind(err, apperrors.KindDecode))
	assert.ErrorIs(t, err, &apperrors.APIError{Kind: apperrors.KindDecode})
}

func TestDo_NetworkError(t *testing.T) {
	client := New(testConfig("http://backend.invalid"), nil)
	client.httpClient = &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}

	err := client.Do(context.Background(), http.MethodGet, "/items/", nil, nil)
	require.Error(t, err)

	apiErr, ok := apperrors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindNetwork, apiErr.Kind)
	assert.Zero(t, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDo_CancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Do(ctx, http.MethodGet, "/items/", nil, nil)
	assert.True(t, apperrors.IsAPIKind(err, apperrors.KindNetwork))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_RedirectCounter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/") {
			http.Redirect(w, r, r.URL.Path+"/", http.StatusTemporaryRedirect)
			return
		}
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"x"}`, string(body))
		_ = json.NewEncoder(w).Encode(item{ID: "1"})
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), nil)

	hops := -1
	var out item
	require.NoError(t, client.DoJSON(context.Background(), http.MethodPost, "/items", map[string]string{"name": "x"}, &out,
		WithRedirectCounter(&hops)))
	assert.Equal(t, 1, hops)
	assert.Equal(t, "1", out.ID)

	hops = -1
	require.NoError(t, client.DoJSON(context.Background(), http.MethodPost, "/items/", map[string]string{"name": "x"}, &out,
		WithRedirectCounter(&hops)))
	assert.Equal(t, 0, hops)
}

func TestStream(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "*/*", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 body"))
	}, "tok")

	var buf bytes.Buffer
	n, err := client.Stream(context.Background(), http.MethodGet, "/documents/1/download", &buf, WithHeader("Accept", "*/*"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("%PDF-1.7 body")), n)
	assert.Equal(t, "%PDF-1.7 body", buf.String())
}

func TestStream_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Document not found"}`))
	}, "tok")

	var buf bytes.Buffer
	_, err := client.Stream(context.Background(), http.MethodGet, "/documents/1/download", &buf)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Zero(t, buf.Len())
}

func TestURL(t *testing.T) {
	cfg := testConfig("https://codeme.example.com/")
	cfg.APIV1Str = "api/v1/"
	client := New(cfg, nil)

	assert.Equal(t, "/api/v1/links/", client.APIPath("/links/"))
	assert.Equal(t, "https://codeme.example.com/api/v1/links/", client.URL("/links/"))
}
