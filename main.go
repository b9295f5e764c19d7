package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/report-card-manager/internal/config"
	"github.com/SAP-F-2025/report-card-manager/internal/handlers"
	"github.com/SAP-F-2025/report-card-manager/internal/repositories/jsonfile"
	"github.com/SAP-F-2025/report-card-manager/internal/services"
	"github.com/SAP-F-2025/report-card-manager/internal/utils"
	"github.com/SAP-F-2025/report-card-manager/internal/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		log.Fatalf("Failed to run: %v", err)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// Initialize repository
	store := jsonfile.NewRosterStore(cfg.DataFile, logger)

	// Initialize validator
	v := validator.New()

	// Initialize services
	roster := services.NewRosterService(store, v, logger)
	export := services.NewExportService(roster, v, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := roster.Load(ctx); err != nil {
		fmt.Printf("Could not load existing data: %v\n", err)
		fmt.Println("Starting with an empty roster.")
	} else if n := len(roster.ListStudents(ctx)); n > 0 {
		fmt.Printf("Loaded %d students from %s\n", n, cfg.DataFile)
	}

	// The roster is saved on every exit path: menu exit, end of input,
	// and interrupt all funnel through this deferred save.
	defer func() {
		if err := roster.Save(context.Background()); err != nil {
			fmt.Printf("Failed to save data: %v\n", err)
			logger.Error("Failed to save roster on shutdown", "error", err)
			return
		}
		fmt.Printf("Data saved to %s\n", cfg.DataFile)
	}()

	// Initialize handler
	menu := handlers.NewMenuHandler(roster, export, logger, os.Stdin, os.Stdout, cfg.DataFile, cfg.ExportFile)

	// Run the menu in a goroutine so an interrupt can stop it
	done := make(chan error, 1)
	go func() {
		done <- menu.Run(ctx)
	}()

	// Wait for the menu to finish or an interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-done:
		return err
	case sig := <-quit:
		fmt.Println("\nInterrupted. Saving before exit...")
		logger.Info("Signal received, shutting down", "signal", sig.String())
		cancel()
		// Give an in-flight menu action a moment to finish before the
		// deferred save runs. The menu is usually parked on stdin and
		// never notices the cancel, so don't wait on it for long.
		select {
		case <-done:
		case <-time.After(time.Second):
		}
		return nil
	}
}
