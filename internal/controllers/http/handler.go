package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shop-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Pinger is anything /healthz should check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth    *services.AuthService
	catalog *services.CatalogService
	carts   *services.CartService
	orders  *services.OrderService
	checks  map[string]Pinger
	log     zerolog.Logger
}

func NewHandler(auth *services.AuthService, catalog *services.CatalogService, carts *services.CartService, orders *services.OrderService, log zerolog.Logger) *Handler {
	return &Handler{
		auth:    auth,
		catalog: catalog,
		carts:   carts,
		orders:  orders,
		checks:  make(map[string]Pinger),
		log:     log,
	}
}

func (h *Handler) AddHealthCheck(name string, p Pinger) {
	h.checks[name] = p
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)

	r.POST("/signup", h.SignUp)
	r.POST("/signin", h.SignIn)
	r.POST("/token/refresh", h.Refresh)

	authed := r.Group("/", h.RequireAuth())
	authed.GET("/products", h.ListProducts)
	authed.GET("/products/:id", h.GetProduct)
	authed.POST("/cart/add", h.AddToCart)
	authed.GET("/cart", h.GetCart)
	authed.POST("/placeorder", h.PlaceOrder)
	authed.GET("/getorders", h.GetOrders)
	authed.GET("/orders/:id", h.GetOrder)

	admin := authed.Group("/", RequireAdmin())
	admin.POST("/addproduct", h.AddProduct)
	admin.PUT("/updateproduct/:id", h.UpdateProduct)
	admin.DELETE("/deleteproduct/:id", h.DeleteProduct)
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Str("check", name).Msg("health check failed")
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "unavailable"
	}
	c.JSON(status, gin.H{"status": state, "checks": results})
}

func idParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
