package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardpress/cardpress/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the deck with live reload",
	Long: `Generates the deck, serves it on a local port and rebuilds whenever a
project file changes. Connected browsers reload automatically.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("open", false, "open the deck in your browser")
	serveCmd.Flags().Bool("no-watch", false, "do not rebuild on file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Serve.Port = port
	}
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Serve.Watch = false
	}
	open, _ := cmd.Flags().GetBool("open")

	builds, err := openBuildLog(cfg)
	if err != nil {
		return fmt.Errorf("opening build log: %w", err)
	}
	defer builds.Close()

	s := server.New(server.Config{
		Host:            cfg.Serve.Host,
		Port:            cfg.Serve.Port,
		ProjectRoot:     ".",
		OutputDir:       cfg.OutputDir,
		Watch:           cfg.Serve.Watch,
		Verbose:         cfg.Verbose,
		Version:         Version,
		Datasources:     cfg.Datasources,
		Patterns:        cfg.Include,
		DefinitionsPath: cfg.Definitions,
		DefaultSize:     cfg.CardSize,
		ForcePageBreaks: cfg.ForcePageBreaks,
		DisableBacks:    cfg.DisableBacks,
	}, builds)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// An up-to-date deck before the first request.
	if result, err := s.Rebuild(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: initial build failed: %v\n", err)
	} else {
		fmt.Printf("Generated %d cards on %d pages.\n", result.Cards, result.Pages)
	}

	url := fmt.Sprintf("http://%s:%d", cfg.Serve.Host, cfg.Serve.Port)
	if open {
		go openBrowser(url)
	}
	fmt.Printf("Serving deck at %s\n", url)
	fmt.Println("Press Ctrl+C to stop.")

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Could not open browser: %v\n", err)
	}
}
