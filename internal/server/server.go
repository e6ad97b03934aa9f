// Package server exposes the shopping assistant over HTTP: a chat endpoint
// driving the engine, and the grocery tools as plain JSON endpoints.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/ottoshop/internal/agent"
	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/engine"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Option configures the Server.
type Option func(*Server)

// WithAllowedOrigins sets the origins the CORS policy accepts.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// Server routes HTTP requests to the engine and tools.
type Server struct {
	engine  *engine.Engine
	tools   *agent.Tools
	log     *logger.Logger
	origins []string
	router  *gin.Engine
}

// New builds the router. Gin's request log goes through log.
func New(eng *engine.Engine, tools *agent.Tools, log *logger.Logger, opts ...Option) *Server {
	s := &Server{
		engine:  eng,
		tools:   tools,
		log:     log,
		origins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.LoggerWithWriter(log.Writer()), gin.Recovery())
	r.Use(cors.New(corsConfig(s.origins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/chat", s.chat)
		api.POST("/items/parse", s.parseItems)
		api.POST("/prices", s.prices)
		api.POST("/compare", s.compare)
		api.POST("/basket", s.basket)
		api.POST("/checkout", s.checkout)

		conv := api.Group("/conversations/:id")
		{
			conv.GET("", s.getConversation)
			conv.POST("/select", s.selectStore)
			conv.POST("/address", s.address)
			conv.POST("/new", s.newOrder)
		}
	}

	s.router = r
	return s
}

// corsConfig allows the given origins. No origins, or "*", allows all.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// ── Responses ────────────────────────────────────────────────────

type selectionView struct {
	Store             domain.Store `json:"store"`
	Total             float64      `json:"total"`
	DeliveryTimeHours int          `json:"deliveryTimeHours"`
}

type conversationView struct {
	ID          string               `json:"conversationId"`
	Stage       string               `json:"stage"`
	Basket      []string             `json:"basket"`
	Comparisons []domain.RankedQuote `json:"comparisons"`
	Selection   *selectionView       `json:"selection,omitempty"`
	Order       *domain.Order        `json:"order,omitempty"`
}

type turnView struct {
	conversationView
	Message  string `json:"message"`
	Degraded bool   `json:"degraded,omitempty"`
}

func viewOf(conv *domain.Conversation) conversationView {
	v := conversationView{
		ID:          conv.ID,
		Stage:       conv.Stage.String(),
		Basket:      conv.Basket,
		Comparisons: conv.Comparisons.Ranked(),
		Order:       conv.Order,
	}
	if v.Basket == nil {
		v.Basket = []string{}
	}
	if v.Comparisons == nil {
		v.Comparisons = []domain.RankedQuote{}
	}
	if conv.SelectedStore != domain.StoreUnknown {
		v.Selection = &selectionView{
			Store:             conv.SelectedStore,
			Total:             conv.SelectedTotal,
			DeliveryTimeHours: conv.DeliveryHours,
		}
	}
	return v
}

func turnOf(res *engine.TurnResult) turnView {
	return turnView{conversationView: viewOf(res.Conversation), Message: res.Message, Degraded: res.Degraded}
}

// fail maps an error to a status code and writes it.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var addrErr *engine.AddressError

	switch {
	case errors.As(err, &addrErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": addrErr.Msg})
		return
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrOrderComplete), errors.Is(err, domain.ErrNoStoreSelected):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnknownStore), errors.Is(err, domain.ErrUnknownAction):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
}
