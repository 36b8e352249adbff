// Package server exposes the storefront over HTTP: a JSON API for the catalog,
// the shared state, and checkout, plus a websocket stream of store events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/eventbus"
	"github.com/colonyops/storefront/internal/core/store"
	"github.com/colonyops/storefront/internal/storefront"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// Bus is the event source for /ws. Defaults to the app's bus.
	Bus    *eventbus.EventBus
	Logger zerolog.Logger
}

// Server serves the storefront API.
type Server struct {
	app    *storefront.App
	hub    *Hub
	engine *gin.Engine
	log    zerolog.Logger

	upgrader    websocket.Upgrader
	unsubscribe func()
}

// New builds the router and subscribes the websocket hub to the event bus.
// Close undoes the subscription.
func New(app *storefront.App, opts Options) *Server {
	bus := opts.Bus
	if bus == nil {
		bus = app.Bus
	}

	s := &Server{
		app: app,
		hub: NewHub(opts.Logger),
		log: opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API binds to a local address and carries no credentials.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.unsubscribe = bus.SubscribeAll(s.hub.Relay)
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.log))

	r.GET("/health", s.health)
	r.GET("/ws", s.stream)

	api := r.Group("/api")
	api.GET("/categories", s.listCategories)
	api.GET("/categories/:slug/products", s.categoryProducts)
	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)
	api.GET("/state", s.getState)
	api.POST("/actions", s.dispatch)
	api.POST("/checkout", s.checkout)

	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Close detaches from the event bus and disconnects websocket clients.
func (s *Server) Close() {
	s.unsubscribe()
	s.hub.CloseAll()
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.hub.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.log.Info().Msg("server stopped")
		return nil
	})

	return g.Wait()
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"cached":     s.app.Catalog.Cached(),
		"ws_clients": s.hub.Count(),
	})
}

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.app.Catalog.ListCategories())
}

func (s *Server) categoryProducts(c *gin.Context) {
	cat, ok := s.app.Catalog.Category(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}

	q, err := parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q.Category = cat.Slug

	products, err := s.app.Catalog.Search(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": cat,
		"items":    products,
	})
}

func (s *Server) listProducts(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := s.app.Catalog.Search(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(products),
		"items": products,
	})
}

func (s *Server) getProduct(c *gin.Context) {
	p, ok := s.app.Catalog.FindProductByID(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// stateView is the /api/state body.
type stateView struct {
	store.State
	CartCount int                `json:"cartCount"`
	Totals    storefront.Totals `json:"totals"`
}

func (s *Server) stateView() stateView {
	state := s.app.Store.State()
	return stateView{
		State:     state,
		CartCount: state.CartCount(),
		Totals:    storefront.ComputeTotals(state.Cart),
	}
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.stateView())
}

type actionRequest struct {
	Type    store.Kind      `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (s *Server) dispatch(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	action, err := store.DecodeAction(req.Type, req.Payload)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, store.ErrUnknownAction) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	s.app.Store.Dispatch(action)
	s.log.Debug().Ctx(c.Request.Context()).Str("action", string(action.Kind())).Msg("dispatched")

	c.JSON(http.StatusOK, s.stateView())
}

func (s *Server) checkout(c *gin.Context) {
	var customer store.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := s.app.Checkout.PlaceOrder(c.Request.Context(), customer)
	if err != nil {
		var fieldErrs criterio.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			fields := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields[fe.Field] = fe.Err.Error()
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid customer", "fields": fields})
		case errors.Is(err, storefront.ErrEmptyCart):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			s.log.Error().Ctx(c.Request.Context()).Err(err).Msg("checkout failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (s *Server) stream(c *gin.Context) {
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}

	if err := s.hub.Add(ws, Message{Type: "welcome", Payload: s.stateView()}); err != nil {
		_ = ws.Close()
		return
	}
	s.log.Debug().Ctx(c.Request.Context()).Int("clients", s.hub.Count()).Msg("websocket client connected")

	// Incoming frames are ignored; reading detects the disconnect.
	ws.SetReadLimit(4096)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	s.hub.Remove(ws)
	s.log.Debug().Ctx(c.Request.Context()).Msg("websocket client disconnected")
}

// parseQuery reads the product filters: q, category, min_price, max_price,
// sort, and match.
func parseQuery(c *gin.Context) (catalog.Query, error) {
	sort, err := catalog.ParseSort(c.Query("sort"))
	if err != nil {
		return catalog.Query{}, err
	}

	q := catalog.Query{
		Search:   c.Query("q"),
		Category: c.Query("category"),
		Pattern:  c.Query("match"),
		Sort:     sort,
	}

	if q.MinPrice, err = parsePrice(c.Query("min_price")); err != nil {
		return catalog.Query{}, fmt.Errorf("min_price: %w", err)
	}
	if q.MaxPrice, err = parsePrice(c.Query("max_price")); err != nil {
		return catalog.Query{}, fmt.Errorf("max_price: %w", err)
	}

	return q, nil
}

func parsePrice(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return &v, nil
}
