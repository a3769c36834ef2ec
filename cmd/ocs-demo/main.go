// Package main is a small demonstration client: it connects to a server,
// dumps instance and user information, and lists a directory with its
// shares.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/opencloudkit/ocs-go/internal/cfgutil"
	"github.com/opencloudkit/ocs-go/internal/logutil"
	"github.com/opencloudkit/ocs-go/ocs"
)

type demoConfig struct {
	Server struct {
		URL      string `mapstructure:"url"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	} `mapstructure:"server"`
	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
	Demo struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"demo"`
}

// ApplyDefaults implements cfgutil.Setter.
func (c *demoConfig) ApplyDefaults() {
	if c.Demo.Path == "" {
		c.Demo.Path = "/"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func main() {
	configPath := flag.String("config", "", "Path to TOML config file (optional)")
	serverURL := flag.String("url", "", "Server URL (overrides config)")
	username := flag.String("user", "", "User name (overrides config)")
	password := flag.String("password", "", "Password (overrides config)")
	listPath := flag.String("path", "", "Directory to list (overrides config, default /)")
	loggingLevel := flag.String("logging-level", "", "Log level: debug, info, warn, error (overrides config)")
	timeout := flag.Duration("timeout", 30*time.Second, "Per-request timeout")
	flag.Parse()

	// Bootstrap logger for config loading errors (uses default level)
	bootstrapLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := &demoConfig{}
	if *configPath != "" {
		if err := cfgutil.LoadTOML(*configPath, cfg); err != nil {
			bootstrapLogger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	} else {
		cfg.ApplyDefaults()
	}
	applyOverride(&cfg.Server.URL, *serverURL)
	applyOverride(&cfg.Server.Username, *username)
	applyOverride(&cfg.Server.Password, *password)
	applyOverride(&cfg.Demo.Path, *listPath)
	applyOverride(&cfg.Logging.Level, *loggingLevel)

	if cfg.Server.URL == "" || cfg.Server.Username == "" {
		bootstrapLogger.Error("server url and user name are required (flags or config file)")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logutil.ParseLevel(cfg.Logging.Level),
	}))

	client, err := ocs.NewClient(cfg.Server.URL, cfg.Server.Username, cfg.Server.Password, &ocs.Options{
		Logger:  logger,
		Timeout: *timeout,
	})
	if err != nil {
		logger.Error("failed to create client", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), client, cfg.Demo.Path); err != nil {
		logger.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

func applyOverride(dest *string, value string) {
	if value != "" {
		*dest = value
	}
}

func run(ctx context.Context, client *ocs.Client, path string) error {
	fmt.Println("## Instance")
	fmt.Println("BaseURL=" + client.BaseURL())
	fmt.Println("WebDavBaseURL=" + client.WebDavBaseURL())
	fmt.Println()

	fmt.Println("## Config")
	cfg, err := client.GetConfig(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Website=" + cfg.Website)
	fmt.Println("Host=" + cfg.Host)
	fmt.Println("Ssl=" + cfg.SSL)
	fmt.Println("Contact=" + cfg.Contact)
	fmt.Println("Version=" + cfg.Version)
	fmt.Println()

	fmt.Println("## User")
	user, err := client.GetUserAttributes(ctx, client.Username())
	if err != nil {
		return err
	}
	fmt.Println("DisplayName=" + user.DisplayName)
	fmt.Println("Email=" + user.Email)
	fmt.Printf("Enabled=%t\n", user.Enabled)
	if user.Quota != nil {
		fmt.Printf("Quota.Total=%.0f\n", user.Quota.Total)
		fmt.Printf("Quota.Used=%.0f\n", user.Quota.Used)
		fmt.Printf("Quota.Free=%.0f\n", user.Quota.Free)
		fmt.Printf("Quota.Relative=%.2f\n", user.Quota.Relative)
	}
	fmt.Println()

	fmt.Println("## Files in " + path)
	resources, err := client.List(ctx, path)
	if err != nil {
		return err
	}
	for _, res := range resources {
		kind := "file"
		if res.IsDirectory() {
			kind = "dir"
		}
		fmt.Printf("%-4s %s\n", kind, res.FullPath)
	}
	fmt.Println()

	fmt.Println("## Shares")
	shares, err := client.GetShares(ctx, "", nil, nil)
	if err != nil {
		return err
	}
	for _, share := range shares {
		fmt.Println(share.Info().String())
	}
	return nil
}
