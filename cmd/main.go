package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"support-chat/auth"
	"support-chat/domain"
	"support-chat/infrastructure/httpapi"
	"support-chat/infrastructure/ws"
	"support-chat/observability"
	"support-chat/repositories"
	"support-chat/runtime"
	"support-chat/runtime/workers"
	"support-chat/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the server lifecycle, so
// that every defer (database close included) executes before the
// process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Routing core & supervision
	stats := observability.NewStats()
	messageRepository := repositories.NewMessageRepository(db, log)
	ticketRepository := repositories.NewTicketRepository(db, log)
	userRepository := repositories.NewUserRepository(db)

	saves := make(chan domain.ChatMessage, config.PersistBufferSize)
	tickets := make(chan workers.TicketOp, config.PersistBufferSize)

	membership := runtime.NewMembership(log)
	backfill := runtime.NewBackfill(messageRepository, log, config.HistoryPageSize)
	router := runtime.NewRouter(log, membership, backfill, saves, tickets, stats, config.BufferSize)

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(router,
		workers.NewPersistWorker(log, saves, tickets, messageRepository, ticketRepository, stats),
		workers.NewHealthWorker(log, stats, config.MetricInterval))

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sup.Run(ctx)

	// 5. Public HTTP surface: websocket gateway + account endpoints
	chatService := services.NewChatService(router)
	authService := services.NewAuthService(userRepository, log, config.AuthTokenDuration)
	wsServer := ws.NewServer(log, chatService, auth.TokenAuthenticator{}, config.ConnectionBufferSize)

	mux := http.NewServeMux()
	mux.Handle("/ws", wsServer.Handler())
	httpapi.NewAuthHandler(log, authService).RegisterRoutes(mux)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: mux}

	// 6. Ops surface: JSON stats + gRPC health for probes
	debugServer := observability.NewDebugServer(log, config.OpsPort, func() map[string]any {
		snapshot := stats.Snapshot()
		snapshot["agents_online"] = len(membership.List(domain.GroupAgents))
		snapshot["active_requesters"] = len(membership.List(domain.GroupActiveRequesters))
		snapshot["persist_queue"] = len(saves)
		return snapshot
	})

	healthListener, err := net.Listen("tcp", fmt.Sprintf(":%d", config.HealthPort))
	if err != nil {
		return fmt.Errorf("failed to listen on health port: %w", err)
	}
	grpcServer := grpc.NewServer()
	healthService := health.NewServer()
	healthgrpc.RegisterHealthServer(grpcServer, healthService)
	healthService.SetServingStatus("", healthgrpc.HealthCheckResponse_SERVING)

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting websocket gateway", "address", address)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()
	go func() {
		if err := debugServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("debug server error: %w", err)
		}
	}()
	go func() {
		if err := grpcServer.Serve(healthListener); err != nil {
			errChan <- fmt.Errorf("health server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	healthService.SetServingStatus("", healthgrpc.HealthCheckResponse_NOT_SERVING)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	_ = debugServer.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
