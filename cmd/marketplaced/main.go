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

	"github.com/ZilDuck/elysium-marketplace/internal/config"
	"github.com/ZilDuck/elysium-marketplace/internal/config/di"
	"github.com/ZilDuck/elysium-marketplace/internal/messenger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func main() {
	config.Init()

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Get().ElasticSearch.Enabled {
		if err := container.GetElastic().InstallMappings(); err != nil {
			zap.L().With(zap.Error(err)).Fatal("Failed to install mappings")
		}
		container.GetActivityIndexer().Subscribe(container.GetEvents())
		container.GetMetadataIndexer().Subscribe(container.GetEvents())
	}

	if config.Get().Amqp.Uri != "" {
		messenger.SubscribeSaleNotifications(container.GetEvents(), container.GetMessenger())
		go consumeMetadataRefresh(ctx, container)
	}

	health := &http.Server{Addr: ":" + config.Get().HealthPort, Handler: healthRouter()}
	go serve("health", health)

	server := &http.Server{
		Addr:         ":" + config.Get().ApiPort,
		Handler:      container.GetApi().Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go serve("api", server)

	zap.L().With(zap.String("port", config.Get().ApiPort), zap.String("health", config.Get().HealthPort)).
		Info("Marketplace Started")

	container.GetDaemon().Execute(ctx)

	shutdown(server, health)
	container.GetEvents().Close()
	container.GetElastic().Persist()

	if err := container.Delete(); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to close container")
	}
	zap.L().Info("Marketplace Stopped")
}

func consumeMetadataRefresh(ctx context.Context, container *di.Container) {
	metadataIndexer := container.GetMetadataIndexer()
	err := container.GetMessenger().ConsumeMessages(ctx, messenger.MetadataRefresh, metadataIndexer.HandleRefreshMessage)
	if err != nil && !errors.Is(err, context.Canceled) {
		zap.L().With(zap.Error(err)).Error("Metadata refresh consumer stopped")
	}
}

func serve(name string, server *http.Server) {
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().With(zap.Error(err), zap.String("server", name)).Fatal("Failed to start server")
	}
}

func shutdown(servers ...*http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, server := range servers {
		if err := server.Shutdown(ctx); err != nil {
			zap.L().With(zap.Error(err), zap.String("addr", server.Addr)).Error("Failed to shutdown server")
		}
	}
}

func healthRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK")
	}).Methods("GET")

	return r
}
