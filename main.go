package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verdictsec/verdict/audit"
	"github.com/verdictsec/verdict/config"
	"github.com/verdictsec/verdict/controller"
	"github.com/verdictsec/verdict/db"
	logger "github.com/verdictsec/verdict/logging"
	"github.com/verdictsec/verdict/pdp/engine"
	"github.com/verdictsec/verdict/pdp/loader"
	"github.com/verdictsec/verdict/pep"
	"github.com/verdictsec/verdict/router"
	"github.com/verdictsec/verdict/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Load the policy tree once at startup; a structurally invalid definition
	// never becomes active.
	policyFile := config.GetString("policy.file")
	root, err := loader.LoadFile(policyFile)
	if err != nil {
		logger.Fatal("Failed to load policy set", zap.Error(err), zap.String("file", policyFile))
	}
	pdp := engine.NewDecisionPoint(root)

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Wire the decision audit trail
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize audit repository", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)
	audit.SubscribeToDecisions(eventBus, auditService)

	// Initialize the enforcement adapter and controllers
	enforcer := pep.NewEnforcer(pdp, eventBus)
	controllers := controller.NewControllers(pdp, enforcer, eventBus, policyFile)

	jwtSecret := []byte(config.GetString("auth.jwtSecret"))
	if len(jwtSecret) == 0 {
		logger.Fatal("auth.jwtSecret must be configured")
	}

	gin.SetMode(gin.ReleaseMode)
	r := router.SetupRouter(
		controllers,
		jwtSecret,
		config.GetInt("ratelimit.requests"),
		viperDuration("ratelimit.window"),
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: r,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

func viperDuration(key string) time.Duration {
	d, err := time.ParseDuration(config.GetString(key))
	if err != nil {
		return time.Minute
	}
	return d
}
