/*
Copyright © 2025 Andrew Melnick meln5674.5674@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/meln5674/frontend-entry-server/pkg/frontend"
)

// EnvPrefix is prepended to the upper-cased, underscored flag name to find its environment variable
const EnvPrefix = "FRONTEND_ENTRY_"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "frontend-entry-server",
	Short: "Serve a pre-built front-end entry page",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return applyEnv(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		err := level.UnmarshalText([]byte(logLevel))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		if buildDir == "" {
			buildDir, err = defaultBuildDir()
			if err != nil {
				return err
			}
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		handler := frontend.New(frontend.Config{
			BuildDir:        buildDir,
			IndexFile:       indexFile,
			WatchPollPeriod: watchPollPeriod,
			Registry:        registry,
		})
		slog.Info("serving front-end build", "build-dir", buildDir, "index", handler.Index().Path())
		if _, err := handler.Index().Stat(); errors.Is(err, frontend.ErrAssetMissing) {
			slog.Warn("index not found, requests will fail until the front-end is built", "path", handler.Index().Path())
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		srv := http.Server{
			Handler:     handler,
			Addr:        listenAddr,
			BaseContext: func(net.Listener) context.Context { return ctx },
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		slog.Info("listening", "addr", listenAddr)
		err = srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var (
	listenAddr      string
	buildDir        string
	indexFile       string
	watchPollPeriod time.Duration
	logLevel        string
)

func init() {
	rootCmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:8080", "Address:port to listen on")
	rootCmd.Flags().StringVar(&buildDir, "build-dir", "", "Directory containing the front-end build output. Defaults to ../../frontend/build relative to the executable")
	rootCmd.Flags().StringVar(&indexFile, "index-file", frontend.DefaultIndexFile, "Entry file within the build directory served on /")
	rootCmd.Flags().DurationVar(&watchPollPeriod, "watch-poll-period", frontend.DefaultWatchPollPeriod, "How often watchers check the entry file for changes")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Minimum log level (debug, info, warn, error)")
}

// EnvName returns the environment variable consulted for a flag
func EnvName(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// applyEnv fills every flag not given on the command line from its environment variable, if set
func applyEnv(flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		value, ok := os.LookupEnv(EnvName(f.Name))
		if !ok || strings.TrimSpace(value) == "" {
			return
		}
		if err := flags.Set(f.Name, value); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", EnvName(f.Name), err))
		}
	})
	return errors.Join(errs...)
}

// defaultBuildDir locates the front-end build relative to the running executable
func defaultBuildDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("could not locate executable to find build directory, set --build-dir: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("could not resolve executable to find build directory, set --build-dir: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), "..", "..", "frontend", "build"), nil
}
