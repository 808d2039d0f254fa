// Package sharpd exposes the daemon's inbound HTTP API. Every request body
// is HMAC-verified and every response body HMAC-signed with the daemon's
// shared secret before it reaches a route handler.
package sharpd

import (
	"context"
	"encoding/base64"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/sharpd/src/sharpd/controller/completer"
	"github.com/uber/sharpd/src/sharpd/controller/diagnostics"
	"github.com/uber/sharpd/src/sharpd/controller/server"
	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/internal/errors"
	"github.com/uber/sharpd/src/sharpd/internal/fs"
	"github.com/uber/sharpd/src/sharpd/internal/hmacauth"
	"github.com/uber/sharpd/src/sharpd/internal/serverinfofile"
	"github.com/uber/sharpd/src/sharpd/mapper"
	"github.com/uber/sharpd/src/sharpd/repository/session"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKeyHTTP = "http"

	_defaultAddress = "127.0.0.1:0"
)

// httpConfig is the `http` block of the service configuration.
type httpConfig struct {
	// Address to listen on. Port 0 picks a free port; the resolved address
	// is recorded in the server info file.
	Address string `yaml:"address"`
	// SecretPath is a file holding the base64 daemon secret shared with the
	// editor. Empty generates an ephemeral secret.
	SecretPath string `yaml:"secretPath"`
}

// Handler is the daemon's inbound HTTP surface.
type Handler interface {
	// Engine exposes the assembled router, used directly by tests.
	Engine() *gin.Engine
	// Addr returns the bound listen address, empty before start.
	Addr() string
}

// Params are inbound parameters to initialize the handler.
type Params struct {
	fx.In

	Sessions    session.Repository
	Completer   completer.Controller
	Server      server.Controller
	Diagnostics diagnostics.Controller
	FS          fs.SharpFS
	InfoFile    serverinfofile.ServerInfoFile
	Shutdowner  fx.Shutdowner
	Lifecycle   fx.Lifecycle
	Logger      *zap.SugaredLogger
	Stats       tally.Scope
	Config      config.Provider
}

type handler struct {
	sessions    session.Repository
	completer   completer.Controller
	server      server.Controller
	diagnostics diagnostics.Controller
	fs          fs.SharpFS
	infofile    serverinfofile.ServerInfoFile
	shutdowner  fx.Shutdowner
	logger      *zap.SugaredLogger
	stats       tally.Scope
	cfg         httpConfig

	engine    *gin.Engine
	srv       *http.Server
	secret    hmacauth.Secret
	sessionID uuid.UUID
	addr      string

	extraConfMu sync.Mutex
	extraConf   map[string]bool
}

// New creates the handler, registers its routes and hooks the HTTP server
// into the application lifecycle.
func New(p Params) (Handler, error) {
	h := &handler{
		sessions:    p.Sessions,
		completer:   p.Completer,
		server:      p.Server,
		diagnostics: p.Diagnostics,
		fs:          p.FS,
		infofile:    p.InfoFile,
		shutdowner:  p.Shutdowner,
		logger:      p.Logger.With("handler", "sharpd"),
		stats:       p.Stats.SubScope("handler"),
		extraConf:   make(map[string]bool),
	}

	if err := p.Config.Get(_configKeyHTTP).Populate(&h.cfg); err != nil {
		return nil, err
	}
	if h.cfg.Address == "" {
		h.cfg.Address = _defaultAddress
	}

	if err := h.loadSecret(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	h.sessionID = id
	if err := p.Sessions.Set(context.Background(), mapper.UUIDToSession(id, h.secret)); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	h.engine = gin.New()
	h.engine.Use(gin.Recovery())
	h.engine.Use(h.sessionContext())
	h.engine.Use(h.hmacAuth())
	h.registerRoutes()

	p.Lifecycle.Append(fx.Hook{
		OnStart: h.start,
		OnStop:  h.stop,
	})

	return h, nil
}

func (h *handler) Engine() *gin.Engine { return h.engine }

func (h *handler) Addr() string { return h.addr }

func (h *handler) registerRoutes() {
	h.engine.GET("/ready", h.ready)
	h.engine.GET("/healthy", h.healthy)
	h.engine.POST("/completions", h.completions)
	h.engine.POST("/event_notification", h.eventNotification)
	h.engine.POST("/load_extra_conf_file", h.loadExtraConfFile)
	h.engine.POST("/detailed_diagnostic", h.detailedDiagnostic)
	h.engine.POST("/run_completer_command", h.runCompleterCommand)
	h.engine.POST("/shutdown", h.shutdown)
}

// loadSecret reads the base64 daemon secret from the configured file, or
// generates an ephemeral one when no path is configured.
func (h *handler) loadSecret() error {
	if h.cfg.SecretPath == "" {
		secret, err := hmacauth.GenerateSecret()
		if err != nil {
			return err
		}
		h.secret = secret
		h.logger.Warn("No secret file configured, generated an ephemeral daemon secret")
		return nil
	}

	raw, err := h.fs.ReadFile(h.cfg.SecretPath)
	if err != nil {
		return err
	}
	secret, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return &errors.AuthenticationError{Reason: "secret file is not valid base64"}
	}
	h.secret = secret
	return nil
}

func (h *handler) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", h.cfg.Address)
	if err != nil {
		return err
	}
	h.addr = listener.Addr().String()

	h.srv = &http.Server{Handler: h.engine}
	go func() {
		if err := h.srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			h.logger.Errorw("HTTP server terminated", "error", err)
		}
	}()

	h.logger.Infow("Listening", "address", h.addr)
	if err := h.infofile.UpdateField(serverinfofile.KeyAddress, h.addr); err != nil {
		h.logger.Warnw("Recording listen address failed", "error", err)
	}
	return nil
}

func (h *handler) stop(ctx context.Context) error {
	if err := h.server.Stop(context.WithValue(ctx, entity.SessionContextKey, h.sessionID)); err != nil {
		h.logger.Warnw("Stopping analysis server during shutdown failed", "error", err)
	}
	if h.srv == nil {
		return nil
	}
	return h.srv.Shutdown(ctx)
}
