// Package web serves the calibration and tuning API plus the websocket
// streams renderer clients subscribe to.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/holoview/go-window/internal/log"
	"github.com/holoview/go-window/pkg/calibration"
	"github.com/holoview/go-window/pkg/hub"
	"github.com/holoview/go-window/pkg/pipeline"
	"github.com/holoview/go-window/pkg/protocol"
)

// Server hosts the HTTP API and websocket streams.
type Server struct {
	app  *fiber.App
	addr string

	store    *calibration.Store
	pipeline *pipeline.Pipeline

	// Hubs for websocket broadcast
	projectionHub *hub.Hub
	poseHub       *hub.Hub
}

// NewServer creates the web server. The hubs are the same instances the
// pipeline broadcasts into.
func NewServer(addr string, store *calibration.Store, pl *pipeline.Pipeline, projectionHub, poseHub *hub.Hub) *Server {
	s := &Server{
		addr:          addr,
		store:         store,
		pipeline:      pl,
		projectionHub: projectionHub,
		poseHub:       poseHub,
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-window",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static demo renderer, if present
	app.Static("/", "./static")

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/calibration", s.handleGetCalibration)
	api.Put("/calibration", s.handleUpdateCalibration)
	api.Delete("/calibration", s.handleResetCalibration)
	api.Post("/calibration/estimate", s.handleEstimateDistance)
	api.Get("/tuning", s.handleGetTuning)
	api.Post("/tuning", s.handleSetTuning)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/projection", websocket.New(s.handleProjectionWS))
	app.Get("/ws/pose", websocket.New(s.handlePoseWS))

	s.app = app
	return s
}

// Start runs the hubs and listens. Blocks until shutdown.
func (s *Server) Start() error {
	log.Info("web server listening", "addr", s.addr)

	go s.projectionHub.Run()
	go s.poseHub.Run()

	return s.app.Listen(s.addr)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server error", "err", err)
		}
	}()
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleProjectionWS attaches a renderer client to the projection stream
func (s *Server) handleProjectionWS(c *websocket.Conn) {
	s.greet(c)
	client := hub.NewClient(s.projectionHub, c)
	client.Run()
}

// handlePoseWS attaches a client to the raw pose stream
func (s *Server) handlePoseWS(c *websocket.Conn) {
	s.greet(c)
	client := hub.NewClient(s.poseHub, c)
	client.Run()
}

// greet sends the current pipeline status to a freshly connected client,
// before the client's write pump takes over the connection. A renderer
// learns the session ID and whether a frustum already exists without
// waiting for the first projection frame.
func (s *Server) greet(c *websocket.Conn) {
	msg, err := s.statusMessage()
	if err != nil {
		return
	}
	raw, err := msg.Bytes()
	if err != nil {
		return
	}
	c.WriteMessage(websocket.TextMessage, raw)
}

// statusMessage builds a status message from the current pipeline state.
func (s *Server) statusMessage() (*protocol.Message, error) {
	st := s.pipeline.Status()
	return protocol.NewMessage(protocol.TypeStatus, protocol.StatusPayload{
		Session:    st.Session,
		Running:    st.Running,
		Calibrated: st.Calibrated,
		Frames:     st.Frames,
		Detections: st.Detections,
		Misses:     st.Misses,
		HasFrustum: st.HasFrustum,
	})
}
