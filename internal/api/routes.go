package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"kortex-blueprint/internal/ai"
	"kortex-blueprint/internal/email"
	"kortex-blueprint/internal/mail"
)

// BlueprintPath is the lead form endpoint.
const BlueprintPath = "/api/generate-blueprint"

// Config defines server dependencies.
type Config struct {
	AIConfig          ai.Config
	MailConfig        mail.Config
	Branding          email.Branding
	NotificationEmail string
	AllowedOrigins    []string
}

// Server wires HTTP handlers with the generation API and the email provider.
type Server struct {
	generator         ai.Generator
	sender            mail.Sender
	renderer          *email.Renderer
	notificationEmail string
	allowedOrigins    []string
	allowedMethods    map[string][]string
}

// NewServer constructs the API server and its outbound clients.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	client, err := ai.NewClient(cfg.AIConfig)
	if errors.Is(err, ai.ErrDisabled) {
		return nil, errors.New("blueprint generator disabled: configure GEMINI_API_KEY")
	} else if err != nil {
		return nil, fmt.Errorf("ai client: %w", err)
	}

	sender, err := mail.NewSender(ctx, cfg.MailConfig)
	if err != nil {
		return nil, fmt.Errorf("mail sender: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"model":        client.Model(),
		"provider":     cfg.MailConfig.Provider,
		"notify":       cfg.NotificationEmail != "",
		"cors_origins": len(cfg.AllowedOrigins),
	}).Info("blueprint server configured")

	return NewServerWith(cfg, client, sender)
}

// NewServerWith builds a server around an existing generator and sender.
func NewServerWith(cfg Config, generator ai.Generator, sender mail.Sender) (*Server, error) {
	if generator == nil {
		return nil, errors.New("generator required")
	}
	if sender == nil {
		return nil, errors.New("sender required")
	}
	renderer, err := email.NewRenderer(cfg.Branding)
	if err != nil {
		return nil, err
	}
	return &Server{
		generator:         generator,
		sender:            sender,
		renderer:          renderer,
		notificationEmail: strings.TrimSpace(cfg.NotificationEmail),
		allowedOrigins:    cfg.AllowedOrigins,
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()
	r.HandleMethodNotAllowed = true

	corsCfg := cors.DefaultConfig()
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.POST(BlueprintPath, s.handleGenerateBlueprint)
	r.NoMethod(s.handleMethodNotAllowed)

	s.allowedMethods = make(map[string][]string)
	for _, route := range r.Routes() {
		s.allowedMethods[route.Path] = append(s.allowedMethods[route.Path], route.Method)
	}
	for path := range s.allowedMethods {
		sort.Strings(s.allowedMethods[path])
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMethodNotAllowed(c *gin.Context) {
	if methods := s.allowedMethods[c.Request.URL.Path]; len(methods) > 0 {
		c.Header("Allow", strings.Join(methods, ", "))
	}
	c.JSON(http.StatusMethodNotAllowed, MessageResponse{Message: msgMethodNotAllowed})
}
