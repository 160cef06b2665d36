package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/collabify/relay/config"
	"github.com/collabify/relay/src/hub"
	"github.com/collabify/relay/src/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	h := hub.New(cfg, zerolog.Nop())
	svc := service.New(h, zerolog.Nop())
	return New(cfg, h, svc, zerolog.Nop())
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestInfoRoute(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/ws/info", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var info struct {
		Websocket bool   `json:"websocket"`
		Endpoint  string `json:"endpoint"`
		Clients   int    `json:"clients"`
		Sessions  int    `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(body, &info))
	assert.True(t, info.Websocket)
	assert.Equal(t, "/ws", info.Endpoint)
	assert.Equal(t, 0, info.Clients)
	assert.Equal(t, 0, info.Sessions)
}

func TestRosterRouteNotFound(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/ws/sessions/ghost", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestWSHandlerRejectsNonUpgrade(t *testing.T) {
	s := newTestServer(t)

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/ws?session=s1&wallet=0xabc")
	s.wsHandler(&ctx)

	assert.Equal(t, fasthttp.StatusUpgradeRequired, ctx.Response.StatusCode())
}

func TestWSHandlerRequiresSession(t *testing.T) {
	s := newTestServer(t)

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/ws?wallet=0xabc")
	ctx.Request.Header.Set("Upgrade", "websocket")
	s.wsHandler(&ctx)

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestWSHandlerRequiresWallet(t *testing.T) {
	s := newTestServer(t)

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/ws?session=s1")
	ctx.Request.Header.Set("Upgrade", "websocket")
	s.wsHandler(&ctx)

	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}
