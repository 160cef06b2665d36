// Package server exposes the relay over HTTP: WebSocket upgrades on
// /ws plus info, health and metrics routes via Fiber.
package server

import (
	"strings"

	"github.com/collabify/relay/config"
	"github.com/collabify/relay/src/hub"
	"github.com/collabify/relay/src/service"
	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Server serves the relay's WebSocket endpoint and HTTP API.
type Server struct {
	cfg      *config.Config
	hub      *hub.Hub
	svc      *service.Service
	logger   zerolog.Logger
	app      *fiber.App
	srv      *fasthttp.Server
	upgrader websocket.FastHTTPUpgrader
}

// New builds the server and registers its routes.
func New(cfg *config.Config, h *hub.Hub, svc *service.Service, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		hub:    h,
		svc:    svc,
		logger: logger,
		app:    fiber.New(),
		upgrader: websocket.FastHTTPUpgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     func(*fasthttp.RequestCtx) bool { return true },
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/ws/info", s.handleInfo)
	s.app.Get("/ws/sessions", s.handleSessions)
	s.app.Get("/ws/sessions/:id", s.handleRoster)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (s *Server) handleInfo(c fiber.Ctx) error {
	sessions, clients := s.svc.Counts()
	return c.JSON(fiber.Map{
		"websocket": true,
		"endpoint":  "/ws",
		"clients":   clients,
		"sessions":  sessions,
	})
}

func (s *Server) handleSessions(c fiber.Ctx) error {
	return c.JSON(s.svc.Sessions())
}

func (s *Server) handleRoster(c fiber.Ctx) error {
	roster, err := s.svc.Roster(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"session": c.Params("id"), "users": roster})
}

// wsHandler upgrades /ws requests. Registered at the fasthttp level
// since Fiber v3 does not expose *fasthttp.RequestCtx to handlers.
func (s *Server) wsHandler(ctx *fasthttp.RequestCtx) {
	upgrade := string(ctx.Request.Header.Peek("Upgrade"))
	if !strings.EqualFold(upgrade, "websocket") {
		ctx.SetStatusCode(fasthttp.StatusUpgradeRequired)
		ctx.SetBodyString(`{"error":"upgrade_required","message":"WebSocket upgrade required"}`)
		return
	}

	sessionID := string(ctx.QueryArgs().Peek("session"))
	if sessionID == "" {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.SetBodyString(`{"error":"session_required","message":"session query parameter required"}`)
		return
	}
	wallet := string(ctx.QueryArgs().Peek("wallet"))
	if wallet == "" {
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
		ctx.SetBodyString(`{"error":"identity_required","message":"wallet query parameter required"}`)
		return
	}

	err := s.upgrader.Upgrade(ctx, func(conn *websocket.Conn) {
		identity := hub.NewIdentity(wallet)
		client := s.hub.Admit(sessionID, identity, newWSConn(conn, s.cfg.WriteTimeout))
		go client.WritePump()
		client.ReadPump()
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
	}
}

// Listen composes the WebSocket handler with the Fiber app at the
// fasthttp level and serves until Shutdown.
func (s *Server) Listen() error {
	appHandler := s.app.Handler()
	root := func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) == "/ws" {
			s.wsHandler(ctx)
			return
		}
		appHandler(ctx)
	}

	s.srv = &fasthttp.Server{
		Handler:         root,
		ReadBufferSize:  s.cfg.ReadBufferSize,
		WriteBufferSize: s.cfg.WriteBufferSize,
	}
	s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("relay listening")
	return s.srv.ListenAndServe(s.cfg.ListenAddr)
}

// Shutdown stops accepting connections and drains the server.
func (s *Server) Shutdown() error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown()
}
