package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/billbook/billbook/internal/ledger"
	"github.com/billbook/billbook/internal/middleware"
)

// Config carries the router's collaborators and options.
type Config struct {
	// Store is the ledger behind every resource.
	Store *ledger.Store

	// CORSOrigins restricts browser access; empty allows all origins.
	CORSOrigins []string

	// StaticPath, when set, serves the frontend from this directory with
	// an index.html fallback for unknown non-API paths.
	StaticPath string
}

// NewRouter builds the gin engine: middleware, health and metrics
// endpoints, the /api resource routes, and optional static serving.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/healthcheck", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	users := NewUserHandler(cfg.Store)
	products := NewProductHandler(cfg.Store)
	bills := NewBillHandler(cfg.Store)

	api := r.Group("/api")
	{
		api.GET("/users", users.List)
		api.GET("/users/:id", users.Get)
		api.POST("/users", users.Create)
		api.PUT("/users/:id", users.Update)
		api.DELETE("/users/:id", users.Delete)

		api.GET("/products", products.List)
		api.GET("/products/:id", products.Get)
		api.POST("/products", products.Create)
		api.PUT("/products/:id", products.Update)
		api.DELETE("/products/:id", products.Delete)

		api.GET("/bills", bills.List)
		api.GET("/bills/:id", bills.Get)
		api.POST("/bills", bills.Create)
		api.PUT("/bills/:id", bills.Update)
		api.DELETE("/bills/:id", bills.Delete)
		api.GET("/bills/:id/split", bills.Split)

		api.POST("/bills/:id/users/:userId", bills.AttachUser)
		api.DELETE("/bills/:id/users/:userId", bills.DetachUser)
		api.POST("/bills/:id/products/:productId", bills.AttachProduct)
		api.DELETE("/bills/:id/products/:productId", bills.DetachProduct)
	}

	if cfg.StaticPath != "" {
		registerStatic(r, cfg.StaticPath)
	}

	return r
}

// registerStatic serves files from staticDir on unmatched routes, falling
// back to index.html for SPA-style client routing.
func registerStatic(r *gin.Engine, staticDir string) {
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, Response{Success: false, Error: "not found"})
			return
		}

		urlPath := c.Request.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			c.File(filepath.Join(staticDir, "index.html"))
			return
		}
		c.File(filePath)
	})
}
