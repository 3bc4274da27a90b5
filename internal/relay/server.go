package relay

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/famichat/famichat/internal/bot"
	"github.com/famichat/famichat/internal/chat"
	"github.com/famichat/famichat/internal/config"
)

//go:embed web/index.html
var webFS embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  16 * 1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server is the famichat relay: a single shared broadcast channel plus the
// scripted auto-responder. It holds no message history; a client joining
// late sees no prior messages, and a restart drops everything in flight.
type Server struct {
	Conns     *ConnManager
	port      int
	token     string
	responder atomic.Pointer[bot.Responder]
	httpSrv   *http.Server
	startAt   time.Time
}

func NewServer(cfg *config.Config) *Server {
	s := &Server{
		Conns:   NewConnManager(),
		port:    cfg.Server.Port,
		token:   cfg.Server.Auth.Token,
		startAt: time.Now(),
	}
	s.responder.Store(responderFrom(cfg))
	return s
}

func responderFrom(cfg *config.Config) *bot.Responder {
	rules := make([]bot.Rule, 0, len(cfg.Bot.Rules))
	for _, r := range cfg.Bot.Rules {
		rules = append(rules, bot.Rule{Contains: r.Contains, Reply: r.Reply})
	}
	return bot.New(cfg.Bot.Name, cfg.Bot.Delay(), rules)
}

// ApplyConfig swaps the auto-responder. Wired to config.RegisterOnReload so
// rule edits take effect without dropping connections.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.responder.Store(responderFrom(cfg))
	slog.Info("bot rules applied", "rules", len(cfg.Bot.Rules), "delay", cfg.Bot.Delay())
}

// Handler builds the HTTP handler. Exposed separately from Start for tests.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", s.ginHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/ws", s.ginWebSocket)
	engine.GET("/", s.ginWebIndex)

	return engine
}

// Start begins listening for connections and blocks until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	slog.Info("famichat relay starting", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpSrv.Shutdown(shutdownCtx)
	}()

	if err := s.httpSrv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) ginWebIndex(c *gin.Context) {
	data, err := webFS.ReadFile("web/index.html")
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

func (s *Server) ginHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(s.startAt).String(),
		"clients": s.Conns.Count(),
	})
}

func (s *Server) ginWebSocket(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	conn := &Conn{
		ID:          "conn_" + uuid.NewString(),
		WS:          ws,
		ConnectedAt: time.Now(),
	}

	// First message must be a connect request
	frame, err := ReadFrame(ws)
	if err != nil {
		slog.Warn("failed to read connect frame", "error", err)
		return
	}
	if frame.Method != MethodConnect {
		conn.Send(ResErr(frame.ID, "HANDSHAKE_REQUIRED", "first message must be a connect request"))
		return
	}

	var connectParams ConnectParams
	if err := json.Unmarshal(frame.Params, &connectParams); err != nil {
		conn.Send(ResErr(frame.ID, "INVALID_PARAMS", "invalid connect params"))
		return
	}

	if !s.authenticate(connectParams.Token) {
		conn.Send(ResErr(frame.ID, "AUTH_FAILED", "invalid token"))
		return
	}

	conn.Name = connectParams.Name
	s.Conns.Add(conn)
	defer s.Conns.Remove(conn.ID)

	slog.Info("connection established", "id", conn.ID, "name", conn.Name)

	conn.Send(ResOK(frame.ID, map[string]any{
		"connId":   conn.ID,
		"protocol": 1,
	}))

	// Message loop
	for {
		frame, err := ReadFrame(ws)
		if err != nil {
			slog.Debug("connection closed", "id", conn.ID, "error", err)
			return
		}

		if frame.Type != "req" {
			continue
		}

		if frame.Method != MethodSend {
			conn.Send(ResErr(frame.ID, "UNKNOWN_METHOD", "only chat.send is supported"))
			continue
		}

		// Sends are handled inline so one client's frames are broadcast
		// in the order they arrive (first-received, first-broadcast).
		// Only the bot reply is deferred, via time.AfterFunc, so a
		// pending delay never blocks the next frame either way.
		result, err := s.handleSend(frame.Params)
		if err != nil {
			sendErrorsTotal.Inc()
			conn.Send(ResErr(frame.ID, "REJECTED", err.Error()))
			continue
		}
		conn.Send(ResOK(frame.ID, result))
	}
}

// handleSend rebroadcasts the message verbatim to every connected client,
// including the sender, then evaluates the bot rule table. The sender
// reconciles its own echo; the relay never suppresses it.
func (s *Server) handleSend(params json.RawMessage) (any, error) {
	var msg chat.Message
	if err := json.Unmarshal(params, &msg); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	s.Conns.Broadcast(EventMessage, msg)

	r := s.responder.Load()
	if reply, ok := r.ReplyTo(msg); ok {
		// The reply goes to every client regardless of which chat
		// triggered it. Scoping it to msg.ChatID would arguably be
		// friendlier, but the relay mirrors the reference behavior.
		botMsg := r.Message(msg.ChatID, reply)
		time.AfterFunc(r.Delay, func() {
			s.Conns.Broadcast(EventMessage, botMsg)
			botRepliesTotal.Inc()
			slog.Info("bot reply sent", "trigger", msg.ID, "chat", msg.ChatID)
		})
	}

	return map[string]any{"delivered": s.Conns.Count()}, nil
}

func (s *Server) authenticate(token string) bool {
	if s.token == "" {
		return true // no auth configured
	}
	return token == s.token
}
