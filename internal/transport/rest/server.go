package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/invest_tracker/config"
	"github.com/KotFed0t/invest_tracker/internal/transport/rest/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	srv *http.Server
}

func NewRouter(cfg *config.Config, ctrl *Controller, tokens middleware.TokenParser) *gin.Engine {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", ctrl.Signup)
	auth.POST("/login", ctrl.Login)
	auth.POST("/verify", ctrl.Verify)
	auth.POST("/logout", ctrl.Logout)

	api.POST("/snapshot", middleware.SharedSecret(cfg.HTTP.SnapshotSecret), ctrl.TakeSnapshot)

	private := api.Group("", middleware.Auth(tokens))
	private.GET("/investments", ctrl.GetInvestments)
	private.POST("/investments", ctrl.CreateInvestment)
	private.GET("/investments/history", ctrl.GetHistory)
	private.POST("/investments/export", ctrl.Export)
	private.PUT("/investments/:id", ctrl.UpdateInvestment)
	private.DELETE("/investments/:id", ctrl.DeleteInvestment)
	private.GET("/user/settings", ctrl.GetSettings)
	private.PATCH("/user/settings", ctrl.UpdateSettings)

	return router
}

func NewServer(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:      handler,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		},
	}
}

func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped with error", slog.String("err", err.Error()))
		}
	}()
	slog.Info("http server started!", slog.String("addr", s.srv.Addr))
}

func (s *Server) Stop(ctx context.Context) {
	slog.Info("start stopping http server")
	if err := s.srv.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown error", slog.String("err", err.Error()))
	}
	slog.Info("http server stopped")
}
