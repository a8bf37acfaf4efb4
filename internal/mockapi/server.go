// Package mockapi is a self-contained placement backend that speaks the same
// wire contract as the production optimization service. It exists for demos
// and offline development; its "prediction" is a simple weighted ranking,
// not the real optimizer.
package mockapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shelfcraft/internal/retail"
)

// Server wraps the in-memory store behind a gin router.
type Server struct {
	router *gin.Engine
	store  *Store
	logger *zap.Logger
}

// NewServer builds the mock backend. Pass nil for a silent logger.
func NewServer(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router: gin.New(),
		store:  NewStore(),
		logger: logger,
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/zones", s.handleZones)
	s.router.GET("/zones/:id/layout", s.handleLayout)
	s.router.GET("/zones/:id/metrics", s.handleMetrics)
	s.router.POST("/zones/:id/predict", s.handlePredict)
	s.router.POST("/zones/:id/clear", s.handleClear)
	s.router.POST("/zones/:id/move", s.handleMove)
	s.router.GET("/products", s.handleProducts)
}

// Handler exposes the router for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server on addr, blocking.
func (s *Server) Run(addr string) error {
	s.logger.Info("mock backend listening", zap.String("addr", addr))
	return s.router.Run(addr)
}

func (s *Server) handleZones(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Zones())
}

func (s *Server) handleLayout(c *gin.Context) {
	st, err := s.store.State(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "%s", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"layout": st.Layout})
}

func (s *Server) handleMetrics(c *gin.Context) {
	st, err := s.store.State(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "%s", err.Error())
		return
	}
	c.JSON(http.StatusOK, st.Metrics)
}

func (s *Server) handlePredict(c *gin.Context) {
	st, err := s.store.Predict(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "%s", err.Error())
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleClear(c *gin.Context) {
	st, err := s.store.Clear(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "%s", err.Error())
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleMove(c *gin.Context) {
	var req retail.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid move body: %s", err.Error())
		return
	}
	st, err := s.store.Move(c.Param("id"), req)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, ErrZoneNotFound) {
			status = http.StatusNotFound
		}
		c.String(status, "%s", err.Error())
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleProducts(c *gin.Context) {
	filter := retail.ProductFilter{
		ZoneID:   c.Query("zone_id"),
		Query:    c.Query("q"),
		Category: c.Query("cat"),
		Sort:     retail.SortKey(c.Query("sort")),
	}
	if filter.Sort != "" && !filter.Sort.Valid() {
		c.String(http.StatusBadRequest, "unknown sort key %q", filter.Sort)
		return
	}
	products, err := s.store.Products(filter)
	if err != nil {
		c.String(http.StatusNotFound, "%s", err.Error())
		return
	}
	if products == nil {
		products = []retail.Product{}
	}
	c.JSON(http.StatusOK, products)
}
