package devserver

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"omniorder/internal/api"
	"omniorder/internal/models"
)

// orderRateLimit caps how many orders one address may place per window.
const (
	orderRateLimit  = 5
	orderRateWindow = time.Minute
)

// Server is the dev backend: the complete store/admin/sys/media/ws surface
// over an embedded store.
type Server struct {
	router   *gin.Engine
	store    *Store
	hub      *hub
	secret   []byte
	mediaDir string
	limiter  *rateLimiter
}

// NewServer wires routes over store. mediaDir receives uploaded files; an
// empty value disables uploads.
func NewServer(store *Store, secret, mediaDir string) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		router:   gin.New(),
		store:    store,
		hub:      newHub(),
		secret:   []byte(secret),
		mediaDir: mediaDir,
		limiter:  newRateLimiter(orderRateLimit, orderRateWindow),
	}
	s.router.Use(gin.Recovery())
	s.router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
	}))
	s.setupRoutes()
	return s
}

// Router exposes the gin engine for tests and embedding.
func (s *Server) Router() *gin.Engine { return s.router }

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")

	store := v1.Group("/store")
	{
		store.GET("/config", s.handleStoreConfig)
		store.GET("/menu", s.handleMenu)
		store.POST("/orders", s.handlePlaceOrder)
		store.GET("/orders/:id", s.handleGetOrder)
		store.GET("/orders", s.requireAuth, s.handleListOrders)
		store.PUT("/orders/:id/status", s.requireAuth, s.handleOrderStatus)
	}

	admin := v1.Group("/admin", s.requireAuth)
	{
		admin.GET("/categories", s.handleListCategories)
		admin.POST("/categories", s.handleCreateCategory)
		admin.DELETE("/categories/:id", s.handleDeleteCategory)
		admin.PUT("/categories/reorder", s.handleReorderCategories)
		admin.GET("/items", s.handleListItems)
		admin.POST("/items", s.handleCreateItem)
		admin.PUT("/items/:id", s.handleUpdateItem)
		admin.DELETE("/items/:id", s.handleDeleteItem)
		admin.PUT("/items/reorder", s.handleReorderItems)
		admin.GET("/settings", s.handleGetSettings)
		admin.PUT("/settings", s.handleUpdateSettings)
	}

	sys := v1.Group("/sys")
	{
		sys.POST("/provision", s.handleProvision)
		sys.POST("/generate-demo-session", s.handleDemoSession)
		sys.POST("/reset-demo", s.requireAuth, s.handleResetDemo)
		sys.POST("/contact", s.handleContact)
	}

	v1.POST("/media/upload", s.requireAuth, s.handleUpload)
	v1.GET("/ws/kitchen", s.requireSocketAuth, s.handleKitchenSocket)

	if s.mediaDir != "" {
		s.router.Static("/media", s.mediaDir)
	}
}

// requireAuth accepts a valid HS256 bearer token.
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || !s.validToken(token) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}
	c.Next()
}

// requireSocketAuth reads the token from the query string, the only channel
// a browser WebSocket handshake has.
func (s *Server) requireSocketAuth(c *gin.Context) {
	if !s.validToken(c.Query("token")) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}
	c.Next()
}

func (s *Server) validToken(raw string) bool {
	if raw == "" {
		return false
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	return err == nil && token.Valid
}

func (s *Server) handleStoreConfig(c *gin.Context) {
	cfg, err := s.store.TenantConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) handleMenu(c *gin.Context) {
	menu, err := s.store.Menu()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (s *Server) handlePlaceOrder(c *gin.Context) {
	if !s.limiter.allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many orders"})
		return
	}

	var req api.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CustomerName == "" || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer name and items are required"})
		return
	}

	items, err := s.resolveItems(req.Items)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.store.CreateOrder(req.CustomerName, req.TableNumber, items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.hub.BroadcastNewOrder(order)
	c.JSON(http.StatusCreated, order)
}

// resolveItems validates ordered lines against the live menu and prices
// each selected modifier from the item's groups. Clients never set prices.
func (s *Server) resolveItems(lines []api.PlaceOrderItem) ([]models.OrderItem, error) {
	out := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Qty <= 0 {
			return nil, fmt.Errorf("item %s: qty must be positive", line.ID)
		}
		item, err := s.store.Item(line.ID)
		if err != nil {
			return nil, fmt.Errorf("unknown item %s", line.ID)
		}
		if !item.IsAvailable {
			return nil, fmt.Errorf("item %s is not available", item.Name)
		}

		var mods []models.OrderModifier
		for _, sel := range line.Modifiers {
			opt, ok := findOption(item.ModifierGroups, sel.OptionID)
			if !ok {
				return nil, fmt.Errorf("item %s: unknown option %s", item.Name, sel.OptionID)
			}
			mods = append(mods, models.OrderModifier{
				OptionID:   opt.ID,
				OptionName: opt.Name,
				Price:      opt.Price,
			})
		}

		out = append(out, models.OrderItem{
			ID:        item.ID,
			Name:      item.Name,
			Qty:       line.Qty,
			Modifiers: mods,
			Notes:     line.Notes,
		})
	}
	return out, nil
}

func findOption(groups []models.ModifierGroup, optionID string) (models.ModifierOption, bool) {
	for _, g := range groups {
		for _, opt := range g.Options {
			if opt.ID == optionID {
				return opt, true
			}
		}
	}
	return models.ModifierOption{}, false
}

func (s *Server) handleGetOrder(c *gin.Context) {
	order, err := s.store.Order(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) handleListOrders(c *gin.Context) {
	orders, err := s.store.ActiveOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) handleOrderStatus(c *gin.Context) {
	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !body.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	order, err := s.store.SetOrderStatus(c.Param("id"), body.Status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.hub.BroadcastStatus(order.ID, order.Status)
	c.JSON(http.StatusOK, order)
}

func (s *Server) handleListCategories(c *gin.Context) {
	cats, err := s.store.Categories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var req api.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	cat, err := s.store.CreateCategory(req.Name, req.Rank)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	err := s.store.DeleteCategory(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleReorderCategories(c *gin.Context) {
	var req api.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.ReorderCategories(req.IDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListItems(c *gin.Context) {
	items, err := s.store.Items()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleCreateItem(c *gin.Context) {
	item, ok := bindItem(c)
	if !ok {
		return
	}
	created, err := s.store.CreateItem(item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateItem(c *gin.Context) {
	item, ok := bindItem(c)
	if !ok {
		return
	}
	updated, err := s.store.UpdateItem(c.Param("id"), item)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func bindItem(c *gin.Context) (models.MenuItem, bool) {
	var req api.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and a non-negative price are required"})
		return models.MenuItem{}, false
	}
	return models.MenuItem{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		ImageURL:       req.ImageURL,
		IsAvailable:    req.IsAvailable,
		CategoryID:     req.CategoryID,
		ModifierGroups: req.ModifierGroups,
	}, true
}

func (s *Server) handleDeleteItem(c *gin.Context) {
	err := s.store.DeleteItem(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleReorderItems(c *gin.Context) {
	var req api.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.ReorderItems(req.IDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetSettings(c *gin.Context) {
	cfg, err := s.store.TenantConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var cfg models.TenantConfig
	if err := c.ShouldBindJSON(&cfg); err != nil || cfg.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if err := s.store.UpdateTenantConfig(cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleProvision(c *gin.Context) {
	var req api.ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Domain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and domain are required"})
		return
	}
	t, err := s.store.Provision(req.Name, req.Domain, req.PrimaryColor, req.FontFamily, req.SeedData)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, api.ProvisionResponse{
		ID:         t.ID,
		SchemaName: t.SchemaName,
		Message:    "tenant provisioned",
	})
}

func (s *Server) handleDemoSession(c *gin.Context) {
	const ttl = time.Hour
	sub := "demo-" + uuid.NewString()[:8]
	claims := jwt.MapClaims{
		"sub":   sub,
		"name":  "Demo User",
		"email": sub + "@demo.omniorder.dev",
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, api.DemoSession{
		AccessToken: signed,
		ExpiresIn:   int(ttl.Seconds()),
		User: api.DemoUser{
			Name:    "Demo User",
			Email:   sub + "@demo.omniorder.dev",
			Subject: sub,
		},
	})
}

func (s *Server) handleResetDemo(c *gin.Context) {
	if err := s.store.SeedDemo(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "demo reset"})
}

func (s *Server) handleContact(c *gin.Context) {
	var req api.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
		return
	}
	if err := s.store.SaveLead(req.Name, req.Email, req.Message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusAccepted)
}

func (s *Server) handleUpload(c *gin.Context) {
	if s.mediaDir == "" {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "uploads disabled"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	if err := os.MkdirAll(s.mediaDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	name := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(s.mediaDir, name)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Printf("devserver: stored upload %s (%d bytes)", name, file.Size)
	c.JSON(http.StatusCreated, api.UploadResponse{URL: "/media/" + name})
}

// rateLimiter is a fixed-window per-address counter.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	counts map[string]*windowCount
}

type windowCount struct {
	start time.Time
	n     int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		counts: make(map[string]*windowCount),
	}
}

func (l *rateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.counts[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.counts[key] = &windowCount{start: now, n: 1}
		return true
	}
	if w.n >= l.limit {
		return false
	}
	w.n++
	return true
}
