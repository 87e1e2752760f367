package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agrovision/dashboard-go/internal/api"
	"github.com/agrovision/dashboard-go/internal/client"
	"github.com/agrovision/dashboard-go/internal/config"
	"github.com/agrovision/dashboard-go/internal/database"
	"github.com/agrovision/dashboard-go/internal/handler"
	"github.com/agrovision/dashboard-go/internal/monitor"
	"github.com/agrovision/dashboard-go/internal/repository"
	"github.com/agrovision/dashboard-go/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := client.New(cfg.BackendURL)
	log.Printf("Using prediction backend at %s", backend.BaseURL())

	dashboard := service.NewDashboardService(backend, "", "wheat")
	supply := service.NewSupplyService(backend, cfg.DemandUnits)
	status := service.NewStatusService(
		monitor.New(backend, monitor.WithInterval(cfg.PollInterval)),
		repository.NewStatusRepository(database.GetDB()),
	)
	if err := status.Start(ctx); err != nil {
		log.Fatal("Failed to start retrain status monitor:", err)
	}
	defer status.Stop()

	// 初始化路由
	router := api.SetupRouter(ctx, cfg, api.Handlers{
		Dashboard: handler.NewDashboardHandler(dashboard),
		Supply:    handler.NewSupplyHandler(supply, dashboard),
		Status:    handler.NewStatusHandler(status),
	})

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
