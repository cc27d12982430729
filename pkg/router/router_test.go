package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yours-lab/backend/config"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/logger"
)

func newTestRouter() *Router {
	return New(nil, config.Configs{
		Auth:    config.AuthConfigs{TokenSecret: "secret"},
		Session: config.SessionConfigs{Secret: "secret"},
	}, logger.NewLogger(logger.ERROR))
}

func TestRouterBindQuery(t *testing.T) {
	r := newTestRouter()

	type req struct {
		Name   string `json:"name"`
		Limit  int    `json:"limit"`
		Sorted bool   `json:"sorted"`
	}

	GET(r, "/echo", func(ctx context.Context, body *req) (*req, error) {
		return body, nil
	})

	server := httptest.NewServer(r.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/echo?name=apple&limit=3&sorted=true")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Data    req    `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, http.StatusOK, envelope.Status)
	require.Equal(t, "success", envelope.Message)
	require.Equal(t, req{Name: "apple", Limit: 3, Sorted: true}, envelope.Data)
}

func TestRouterBindBody(t *testing.T) {
	r := newTestRouter()

	type req struct {
		Amount float64 `json:"amount"`
	}

	POST(r, "/charge", func(ctx context.Context, body *req) (*req, error) {
		return body, nil
	})

	server := httptest.NewServer(r.Handler())
	defer server.Close()

	resp, err := http.Post(server.URL+"/charge", "application/json", strings.NewReader(`{"amount": 12.5}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterErrorEnvelope(t *testing.T) {
	r := newTestRouter()

	type empty struct{}
	GET(r, "/missing", func(ctx context.Context, body *empty) (*empty, error) {
		return nil, errorx.New(errorx.NotFound, "Not found token")
	})

	server := httptest.NewServer(r.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var envelope Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, http.StatusNotFound, envelope.Status)
	require.Equal(t, "Not found token", envelope.Message)
	require.Nil(t, envelope.Data)
}

func TestRouterBeforeMiddleware(t *testing.T) {
	r := newTestRouter()
	r.Before(func(ctx context.Context) (context.Context, error) {
		return nil, errorx.New(errorx.Unauthenticated, "You need to log in")
	})

	type empty struct{}
	called := false
	GET(r, "/private", func(ctx context.Context, body *empty) (*empty, error) {
		called = true
		return &empty{}, nil
	})

	server := httptest.NewServer(r.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/private")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.False(t, called)
}

func TestRouterMethodNotAllowed(t *testing.T) {
	r := newTestRouter()

	type empty struct{}
	POST(r, "/only-post", func(ctx context.Context, body *empty) (*empty, error) {
		return &empty{}, nil
	})

	server := httptest.NewServer(r.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/only-post")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
