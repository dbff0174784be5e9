// ruleengine is the edge rules control plane: it mirrors device/script
// state from Postgres, turns triggers (webhook, MQTT, change-log poll) into
// resolved RunCommands, and dispatches them to connected executors over a
// bidirectional gRPC stream.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgemesh/ruleengine/pkg/config"
	"github.com/edgemesh/ruleengine/pkg/database"
	"github.com/edgemesh/ruleengine/pkg/executorsvc"
	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/pkg/persistence"
	"github.com/edgemesh/ruleengine/pkg/reflector"
	"github.com/edgemesh/ruleengine/pkg/scheduler"
	"github.com/edgemesh/ruleengine/pkg/supervisor"
	"github.com/edgemesh/ruleengine/pkg/trigger/changelog"
	"github.com/edgemesh/ruleengine/pkg/trigger/mapper"
	"github.com/edgemesh/ruleengine/pkg/trigger/mqtt"
	"github.com/edgemesh/ruleengine/pkg/trigger/webhook"
	"github.com/edgemesh/ruleengine/proto"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/oklog/run"
	"google.golang.org/grpc"
)

// triggerQueueCap and runQueueCap are the bounded channel capacities spec
// §4.3 assigns to the script-trigger queue and the run-queue.
const (
	triggerQueueCap = 10
	runQueueCap     = 10
	deviceQueueCap  = 10
)

func main() {
	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("parsing flags: %v", err)
	}

	if err := godotenv.Load(cfg.EnvFile); err != nil {
		log.Printf("warning: could not load %s: %v", cfg.EnvFile, err)
		log.Printf("continuing with existing environment variables...")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	dbCfg, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("loading database config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := database.NewClient(ctx, dbCfg)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer dbClient.Close()

	if err := run_(ctx, cfg, dbClient, logger); err != nil {
		logger.Error("ruleengine exited with error", "error", err)
		os.Exit(1)
	}
}

func run_(ctx context.Context, cfg config.Config, dbClient *database.Client, logger *slog.Logger) error {
	sup, supCtx := supervisor.New(logger)

	r := reflector.New(logger)
	store := persistence.NewPgStore(dbClient.DB())

	deviceQueue := make(chan model.DeviceIndex, deviceQueueCap)
	triggerQueue := make(chan model.ScriptIndex, triggerQueueCap)
	runQueue := make(chan model.RunEnvelope, runQueueCap)

	sched := scheduler.New(r, triggerQueue, runQueue, logger)
	sessionMgr := executorsvc.New(runQueue, store, sup.Stopped(), logger)
	poller := changelog.New(dbClient.DB(), store, r, logger)
	deviceMapper := mapper.New(r, deviceQueue, triggerQueue, logger)
	webhookHandler := webhook.NewHandler(triggerQueue, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	webhookHandler.Register(router)
	router.GET("/api/v1alpha/debug", func(c *gin.Context) {
		c.String(http.StatusOK, r.DebugDump())
	})
	router.GET("/health", func(c *gin.Context) {
		health, err := database.Health(c.Request.Context(), dbClient.DB())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, health)
	})
	httpServer := &http.Server{Addr: cfg.WebAddr, Handler: router}

	grpcServer := grpc.NewServer()
	proto.RegisterExecutorServiceServer(grpcServer, sessionMgr)
	executorLis, err := net.Listen("tcp", cfg.ExecutorAddr)
	if err != nil {
		return err
	}

	var g run.Group

	// Supervisor lifecycle: Init immediately, Stop once ctx is cancelled by
	// a signal, giving every other actor's interrupt func a state to read.
	{
		g.Add(func() error {
			sup.Init()
			<-ctx.Done()
			return nil
		}, func(error) {
			sup.Stop()
		})
	}

	// HTTP webhook/debug/health server.
	{
		g.Add(func() error {
			<-sup.Running()
			logger.Info("http server listening", "addr", cfg.WebAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		}, func(error) {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(shutdownCtx)
		})
	}

	// Executor-facing gRPC server (Session Manager).
	{
		g.Add(func() error {
			<-sup.Running()
			logger.Info("executor grpc server listening", "addr", cfg.ExecutorAddr)
			return grpcServer.Serve(executorLis)
		}, func(error) {
			grpcServer.GracefulStop()
		})
	}

	// Scheduler: trigger queue -> run queue.
	{
		g.Add(func() error {
			<-sup.Running()
			return sched.Run(supCtx)
		}, func(error) {})
	}

	// Device-to-script mapper: device queue -> trigger queue.
	{
		g.Add(func() error {
			<-sup.Running()
			return deviceMapper.Run(supCtx)
		}, func(error) {})
	}

	// Change-log poller, when enabled.
	if cfg.ChangeLogEnabled {
		g.Add(func() error {
			<-sup.Running()
			return poller.Run(supCtx)
		}, func(error) {})
	}

	// MQTT trigger, when a broker is configured.
	if cfg.MQTTBroker != "" {
		mqttTrigger := mqtt.New(mqtt.Config{Broker: cfg.MQTTBroker, Namespace: cfg.MQTTDeviceNamespace}, deviceQueue, logger)
		g.Add(func() error {
			<-sup.Running()
			return mqttTrigger.Run(supCtx)
		}, func(error) {})
	}

	return g.Run()
}
