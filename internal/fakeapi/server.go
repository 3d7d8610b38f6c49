// Package fakeapi is an in-memory stand-in for the storefront REST API. It
// serves the same routes and payloads the console consumes so the console
// can be developed and tested without the real backend.
package fakeapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const maxImageBytes = 10 << 20

type Options struct {
	AdminPassword string
	JWTSecret     []byte
	CORSOrigins   []string
	TokenTTL      time.Duration // defaults to 7 days
	Now           func() time.Time
}

type Server struct {
	mu           sync.RWMutex
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time

	products []models.Product
	orders   []models.Order
	images   map[string]storedImage

	engine *gin.Engine
}

type storedImage struct {
	contentType string
	data        []byte
}

func New(opts Options) (*Server, error) {
	if opts.AdminPassword == "" {
		return nil, errors.New("fakeapi: admin password is required")
	}
	if len(opts.JWTSecret) == 0 {
		return nil, errors.New("fakeapi: jwt secret is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	s := &Server{
		passwordHash: hash,
		secret:       opts.JWTSecret,
		ttl:          opts.TokenTTL,
		now:          opts.Now,
		images:       make(map[string]storedImage),
	}
	if s.ttl == 0 {
		s.ttl = 7 * 24 * time.Hour
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	s.engine = s.routes(opts.CORSOrigins)
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = maxImageBytes

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")
	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Storefront API", "status": "running"})
	})
	api.POST("/auth/login", s.login)
	api.GET("/uploads/:name", s.serveImage)

	admin := api.Group("/admin")
	admin.Use(s.requireAdmin)
	{
		admin.GET("/analytics", s.analytics)

		admin.GET("/orders", s.listOrders)
		admin.GET("/orders/:id", s.getOrder)
		admin.PUT("/orders/:id/status", s.updateOrderStatus)

		admin.GET("/products", s.listProducts)
		admin.POST("/products", s.createProduct)
		admin.PUT("/products/:id", s.updateProduct)
		admin.DELETE("/products/:id", s.deleteProduct)

		admin.POST("/upload-image", s.uploadImage)
	}
	return r
}

func abortDetail(c *gin.Context, code int, detail string) {
	c.AbortWithStatusJSON(code, gin.H{"detail": detail})
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)) != nil {
		abortDetail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	token, err := s.issueToken()
	if err != nil {
		abortDetail(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "success": true})
}

func (s *Server) issueToken() (string, error) {
	claims := jwt.MapClaims{
		"admin": true,
		"exp":   jwt.NewNumericDate(s.now().Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) requireAdmin(c *gin.Context) {
	raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || raw == "" {
		abortDetail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			abortDetail(c, http.StatusUnauthorized, "Token has expired")
			return
		}
		abortDetail(c, http.StatusUnauthorized, "Invalid token")
		return
	}
	c.Next()
}

func (s *Server) analytics(c *gin.Context) {
	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := now.Add(-7 * 24 * time.Hour)
	monthStart := now.Add(-30 * 24 * time.Hour)

	orders := s.sortedOrders()
	var a models.Analytics
	for _, o := range orders {
		if !o.CreatedAt.Before(todayStart) {
			a.Today.Orders++
			a.Today.Revenue += o.TotalAmount
		}
		if !o.CreatedAt.Before(weekStart) {
			a.Week.Orders++
			a.Week.Revenue += o.TotalAmount
		}
		if !o.CreatedAt.Before(monthStart) {
			a.Month.Orders++
			a.Month.Revenue += o.TotalAmount
		}
	}
	if len(orders) > 10 {
		orders = orders[:10]
	}
	a.RecentOrders = orders
	c.JSON(http.StatusOK, a)
}

// sortedOrders returns a copy of all orders, newest first.
func (s *Server) sortedOrders() []models.Order {
	s.mu.RLock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Server) listOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.sortedOrders())
}

func (s *Server) getOrder(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.OrderID == c.Param("id") {
			c.JSON(http.StatusOK, o)
			return
		}
	}
	abortDetail(c, http.StatusNotFound, "Order not found")
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if !knownStatus(req.Status) {
		abortDetail(c, http.StatusBadRequest, "Unknown status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].OrderID == c.Param("id") {
			s.orders[i].Status = req.Status
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
	}
	abortDetail(c, http.StatusNotFound, "Order not found")
}

func knownStatus(st models.OrderStatus) bool {
	for _, known := range models.Statuses {
		if st == known {
			return true
		}
	}
	return false
}

func (s *Server) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, s.Products())
}

func (s *Server) createProduct(c *gin.Context) {
	in, ok := bindProduct(c)
	if !ok {
		return
	}
	p := s.AddProduct(productFromInput(in))
	c.JSON(http.StatusOK, p)
}

func (s *Server) updateProduct(c *gin.Context) {
	in, ok := bindProduct(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.products {
		if existing.ProductID == c.Param("id") {
			p := productFromInput(in)
			p.ProductID = existing.ProductID
			p.CreatedAt = existing.CreatedAt
			s.products[i] = p
			c.JSON(http.StatusOK, p)
			return
		}
	}
	abortDetail(c, http.StatusNotFound, "Product not found")
}

func (s *Server) deleteProduct(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ProductID == c.Param("id") {
			s.products = append(s.products[:i], s.products[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
	}
	abortDetail(c, http.StatusNotFound, "Product not found")
}

func bindProduct(c *gin.Context) (models.ProductInput, bool) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, err.Error())
		return in, false
	}
	if strings.TrimSpace(in.Name) == "" {
		abortDetail(c, http.StatusUnprocessableEntity, "name is required")
		return in, false
	}
	return in, true
}

func productFromInput(in models.ProductInput) models.Product {
	return models.Product{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Colors:      nonNil(in.Colors),
		Sizes:       nonNil(in.Sizes),
		Stock:       in.Stock,
		Images:      nonNil(in.Images),
		Active:      in.Active,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *Server) uploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		abortDetail(c, http.StatusBadRequest, "could not read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		abortDetail(c, http.StatusBadRequest, "could not read file")
		return
	}
	if len(data) > maxImageBytes {
		abortDetail(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		abortDetail(c, http.StatusBadRequest, "Failed to upload image")
		return
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	s.mu.Lock()
	s.images[name] = storedImage{contentType: contentType, data: data}
	s.mu.Unlock()

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	c.JSON(http.StatusOK, gin.H{"url": fmt.Sprintf("%s://%s/api/uploads/%s", scheme, c.Request.Host, name)})
}

func (s *Server) serveImage(c *gin.Context) {
	s.mu.RLock()
	img, ok := s.images[c.Param("name")]
	s.mu.RUnlock()
	if !ok {
		abortDetail(c, http.StatusNotFound, "Image not found")
		return
	}
	c.Data(http.StatusOK, img.contentType, img.data)
}

// AddProduct stores p, assigning an identifier and creation time when they
// are unset, and returns the stored copy.
func (s *Server) AddProduct(p models.Product) models.Product {
	if p.ProductID == "" {
		p.ProductID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	p.Colors, p.Sizes, p.Images = nonNil(p.Colors), nonNil(p.Sizes), nonNil(p.Images)
	s.mu.Lock()
	s.products = append(s.products, p)
	s.mu.Unlock()
	return p
}

// AddOrder stores o the same way AddProduct does. A missing status
// defaults to pending.
func (s *Server) AddOrder(o models.Order) models.Order {
	if o.OrderID == "" {
		o.OrderID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	s.mu.Lock()
	s.orders = append(s.orders, o)
	s.mu.Unlock()
	return o
}

func (s *Server) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Server) Orders() []models.Order {
	return s.sortedOrders()
}
