// Package httpapi serves the till over REST and hosts the MCP endpoint
// when running in http mode.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/fete-till/internal/mcp"
	"github.com/ganot/fete-till/internal/till"
)

// Config wires the router.
type Config struct {
	Till *till.Till
	// MCP is mounted on /mcp when set.
	MCP *sdkmcp.Server
	// AllowOrigins restricts CORS. Empty allows any origin.
	AllowOrigins []string
	Logger       *slog.Logger
}

// NewRouter builds the gin engine with the REST routes.
func NewRouter(cfg Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(cfg.Logger), cors.New(corsConfig(cfg.AllowOrigins)))

	api := &api{handler: mcp.NewHandler(cfg.Till), logger: cfg.Logger}

	router.GET("/health", healthHandler)

	tillGroup := router.Group("/till")
	tillGroup.GET("", api.call("till_status", nil))
	tillGroup.POST("/start", api.call("start_session", nil))
	tillGroup.POST("/counts/opening", api.call("submit_opening_count", bindJSON[mcp.CountParams]))
	tillGroup.POST("/close", api.call("request_close", nil))
	tillGroup.POST("/counts/closing", api.call("submit_closing_count", bindJSON[mcp.ClosingCountParams]))
	tillGroup.POST("/counts/interim", api.call("record_interim_count", bindJSON[mcp.InterimCountParams]))
	tillGroup.POST("/cancel", api.call("cancel_count", nil))
	tillGroup.POST("/stale/close", api.call("force_close_stale", nil))
	tillGroup.POST("/stale/resume", api.call("resume_stale", nil))
	tillGroup.GET("/activity", api.call("get_recent_activity", bindActivityQuery))

	orderGroup := router.Group("/order")
	orderGroup.GET("", api.call("order_summary", nil))
	orderGroup.POST("/items", api.call("add_item", bindJSON[mcp.AddItemParams]))
	orderGroup.POST("/buttons/:slot", api.call("press_button", bindSlot))
	orderGroup.PUT("/action", api.call("set_action", bindJSON[mcp.SetActionParams]))
	orderGroup.PUT("/tier", api.call("set_price_tier", bindJSON[mcp.SetPriceTierParams]))
	orderGroup.POST("/fire", api.call("fire", bindJSON[mcp.FireParams]))
	orderGroup.DELETE("", api.call("clear_order", nil))
	orderGroup.POST("/commit", api.call("commit_sale", bindJSON[mcp.CommitSaleParams]))

	router.GET("/catalog", api.call("list_catalog", nil))
	clients := router.Group("/clients")
	clients.GET("", api.call("list_clients", bindClientsQuery))
	clients.POST("", api.call("create_client", bindJSON[mcp.CreateClientParams]))
	clients.POST("/:name/deposit", api.call("deposit", bindDeposit))

	if cfg.MCP != nil {
		server := cfg.MCP
		router.Any("/mcp", gin.WrapH(sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return server },
			&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
		)))
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Mcp-Session-Id", "Mcp-Protocol-Version")
	cfg.ExposeHeaders = []string{"Mcp-Session-Id"}
	return cfg
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if logger == nil {
			return
		}
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
