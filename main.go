package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"page-scheduler/infrastructure/cache"
	"page-scheduler/infrastructure/clients/facebook"
	"page-scheduler/infrastructure/configuration"
	"page-scheduler/infrastructure/logger"
	"page-scheduler/infrastructure/persistence"
	"page-scheduler/infrastructure/pubsub"
	httpHandler "page-scheduler/interfaces/http"
	"page-scheduler/server"
	"page-scheduler/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App
	sched := configuration.C.Scheduler

	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		os.Exit(1)
	}
	if err := persistence.EnsureSchema(db); err != nil {
		logger.GetLogger().WithField("error", err).Error("Schema migration failed")
		os.Exit(1)
	}
	logger.GetLogger().Info("Database connected.")

	redisClient, _ := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	var stateStore cache.IStateStore
	if redisClient != nil {
		stateStore = cache.NewRedisStateStore(redisClient)
	} else {
		logger.GetLogger().Warn("Redis not available, keeping OAuth states in memory")
		stateStore = cache.NewMemoryStateStore()
	}

	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without dispatch events")
		pubSubClient = nil
	}
	dispatchEvents := pubsub.NewDispatchEvents(pubSubClient, configuration.C.Pubsub.Topic)
	defer dispatchEvents.Close()

	graphClient, err := facebook.NewFacebookClient(facebook.Config{
		AppID:       configuration.C.Facebook.AppID,
		AppSecret:   configuration.C.Facebook.AppSecret,
		RedirectURI: configuration.C.Facebook.RedirectURI,
		GraphURL:    configuration.C.Facebook.GraphURL,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Facebook client initialization failed")
		os.Exit(1)
	}

	userRepository := persistence.NewUserRepository(db)
	credRepository := persistence.NewCredentialRepository(db)
	pageRepository := persistence.NewPageCredentialRepository(db)
	auditRepository := persistence.NewTokenAuditRepository(db)
	postRepository := persistence.NewScheduledPostRepository(db)
	historyRepository := persistence.NewPostHistoryRepository(db)

	userUsecase := usecase.NewUserUsecase(userRepository)
	credUsecase := usecase.NewCredentialUsecase(credRepository, pageRepository, auditRepository, graphClient)
	postUsecase := usecase.NewPostUsecase(postRepository, historyRepository, auditRepository, nil)
	dispatcher := usecase.NewDispatcher(postRepository, pageRepository, historyRepository, graphClient, dispatchEvents, usecase.DispatcherOptions{
		MaxRetries:  sched.MaxRetries,
		RetryDelay:  time.Duration(sched.RetryDelayMinutes) * time.Minute,
		WorkerLimit: sched.WorkerLimit,
	})
	scanner := usecase.NewExpiryScanner(credRepository, credUsecase, sched.RefreshThresholdDays)

	userHandler := httpHandler.NewUserHandler(userUsecase)
	facebookHandler := httpHandler.NewFacebookHandler(credUsecase, graphClient, stateStore)
	postHandler := httpHandler.NewPostHandler(postUsecase, dispatcher)

	router := server.InitiateRouter(userHandler, facebookHandler, postHandler)

	// Dispatch loop: every cycle processes due posts once.
	g.Go(func() error {
		ticker := time.NewTicker(time.Duration(sched.DispatchIntervalSeconds) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				cycleCtx, cancelCycle := context.WithTimeout(ctx, 5*time.Minute)
				if _, err := dispatcher.RunCycle(cycleCtx); err != nil {
					logger.GetLogger().WithField("error", err).Error("Dispatch cycle failed")
				}
				cancelCycle()
			}
		}
	})

	// Token refresh loop: refreshes credentials nearing expiry.
	g.Go(func() error {
		ticker := time.NewTicker(time.Duration(sched.RefreshIntervalHours) * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				scanCtx, cancelScan := context.WithTimeout(ctx, 10*time.Minute)
				if _, err := scanner.ScanAndRefresh(scanCtx); err != nil {
					logger.GetLogger().WithField("error", err).Error("Expiry scan failed")
				}
				cancelScan()
			}
		}
	})

	// Daily retention sweep over audit and history tables.
	g.Go(func() error {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				cleanCtx, cancelClean := context.WithTimeout(ctx, time.Minute)
				if err := postUsecase.CleanupOldRecords(cleanCtx); err != nil {
					logger.GetLogger().WithField("error", err).Error("Cleanup failed")
				}
				cancelClean()
			}
		}
	})

	logger.GetLogger().WithField("port", app.Port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", app.Port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
