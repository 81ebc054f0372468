package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"channel-catalog/internal/app"
)

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "catalogserver: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (app.Options, error) {
	fs := flag.NewFlagSet("catalogserver", flag.ContinueOnError)
	fs.SetOutput(output)

	configPath := fs.String("config", "config.json", "Path to the JSON config file (optional).")
	envFiles := fs.String("env-file", ".env", "Comma-separated .env files loaded before the config.")
	logDir := fs.String("log-dir", "", "Directory for the server log and its archives. Overrides server.data_path.")
	readTimeout := fs.Duration("read-timeout", 0, "Overrides server.read_timeout when set.")

	if err := fs.Parse(args); err != nil {
		return app.Options{}, err
	}

	var files []string
	for _, f := range strings.Split(*envFiles, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}

	return app.Options{
		ConfigPath:  *configPath,
		EnvFiles:    files,
		LogDir:      *logDir,
		ReadTimeout: *readTimeout,
	}, nil
}

