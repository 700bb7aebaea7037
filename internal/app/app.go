// Package app wires configuration, logging, storage and both transports
// together and runs them until a shutdown signal arrives.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/patric-chuzhbe/slidr/internal/config"
	"github.com/patric-chuzhbe/slidr/internal/db/jsondb"
	"github.com/patric-chuzhbe/slidr/internal/db/memorystorage"
	"github.com/patric-chuzhbe/slidr/internal/db/postgresdb"
	"github.com/patric-chuzhbe/slidr/internal/db/storage"
	"github.com/patric-chuzhbe/slidr/internal/grpcserver"
	"github.com/patric-chuzhbe/slidr/internal/ipchecker"
	"github.com/patric-chuzhbe/slidr/internal/logger"
	"github.com/patric-chuzhbe/slidr/internal/models"
	"github.com/patric-chuzhbe/slidr/internal/router"
	"github.com/patric-chuzhbe/slidr/internal/service"
)

// App holds everything needed to serve the slidr API.
type App struct {
	cfg         *config.Config
	db          storage.Storage
	httpHandler http.Handler
	grpcServer  *grpc.Server
	grpcLis     net.Listener
}

// New loads the configuration, initializes the logger, opens the storage
// selected by the configuration and builds the HTTP router. The gRPC server
// is built only when a gRPC address is configured.
func New(configOptions ...config.InitOption) (_ *App, err error) {
	app := &App{}

	app.cfg, err = config.New(configOptions...)
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = openStorage(app.cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err == nil {
			return
		}
		if closeErr := app.db.Close(); closeErr != nil {
			logger.Log.Errorln("Error closing the storage: ", zap.Error(closeErr))
		}
	}()

	ipChecker, err := ipchecker.New(app.cfg.TrustedSubnet)
	if err != nil {
		return nil, err
	}

	auth := service.NewAuth(app.db)
	projects := service.NewProjects(app.db)

	app.httpHandler = router.New(
		auth,
		projects,
		service.NewInternal(app.db),
		ipChecker,
		app.cfg.AllowedOrigins,
	)

	if app.cfg.GRPCAddr != "" {
		app.grpcServer, app.grpcLis, err = grpcserver.NewGRPCServer(
			app.cfg.GRPCAddr,
			grpcserver.NewSlidrHandler(auth, projects),
		)
		if err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Run serves HTTP (and gRPC when configured) until SIGINT/SIGTERM, then shuts
// the servers down gracefully and closes the storage.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("in internal/app/app.go/Run(): error while `server.ListenAndServe()` calling: %w", err)
		}
		return nil
	})

	if a.grpcServer != nil {
		group.Go(func() error {
			logger.Log.Infoln("gRPC server running", "GRPCAddr", a.cfg.GRPCAddr)
			if err := a.grpcServer.Serve(a.grpcLis); err != nil {
				return fmt.Errorf("in internal/app/app.go/Run(): error while `a.grpcServer.Serve()` calling: %w", err)
			}
			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Log.Infoln("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		if a.grpcServer != nil {
			stopGRPC(shutdownCtx, a.grpcServer)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("in internal/app/app.go/Run(): error while `server.Shutdown()` calling: %w", err)
		}
		return nil
	})

	runErr := group.Wait()

	if err := a.db.Close(); err != nil {
		logger.Log.Errorln("Error closing the storage: ", zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}

	return runErr
}

// Close flushes the logger.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

// stopGRPC drains in-flight calls until ctx expires, then closes every
// connection.
func stopGRPC(ctx context.Context, server *grpc.Server) {
	stopped := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		logger.Log.Infoln("gRPC graceful stop timed out, forcing")
		server.Stop()
		<-stopped
	}
}

var openStorage = getStorageByType

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage.Storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypePostgresql:
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)

	case models.StorageTypeFile:
		return jsondb.New(cfg.DBFileName)
	}

	return memorystorage.New()
}
