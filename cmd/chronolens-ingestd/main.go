package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/adapters/ingest"
	"github.com/meridian/chronolens/internal/config"
	"github.com/meridian/chronolens/internal/logging"
	"github.com/meridian/chronolens/internal/utils"
)

var (
	listenAddr = flag.String("listen", "", "SMTP listen address (overrides config)")
	domain     = flag.String("domain", "", "SMTP server domain (overrides config)")
	spoolPath  = flag.String("spool", "", "Spool file path (overrides config)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	sink, err := ingest.NewSpoolSink(cfg.GetString("source.spool_path"), logger)
	if err != nil {
		logger.Fatal("Failed to open spool", zap.Error(err))
	}

	tp := utils.NewTextProcessor(logger)
	server := ingest.NewSMTPIngest(
		sink,
		tp,
		logger,
		cfg.GetString("ingest.listen_address"),
		cfg.GetString("ingest.domain"),
		int64(cfg.GetInt("ingest.max_message_bytes")),
		cfg.GetInt("ingest.max_body_size"),
	)

	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start ingest server", zap.Error(err))
	}
	logger.Info("Ingest daemon started",
		zap.String("listen", cfg.GetString("ingest.listen_address")),
		zap.String("spool", cfg.GetString("source.spool_path")))

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if err := server.Stop(); err != nil {
		logger.Error("Failed to stop ingest server", zap.Error(err))
	}
	if err := sink.Close(); err != nil {
		logger.Error("Failed to close spool", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}

// loadConfig builds the configuration from the config file when given,
// otherwise from defaults plus any command line overrides
func loadConfig() (*config.Config, error) {
	if *configFile != "" {
		v := viper.New()
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return config.NewFromViper(v), nil
	}

	v := config.NewEmptyViper()
	if *listenAddr != "" {
		v.Set("ingest.listen_address", *listenAddr)
	}
	if *domain != "" {
		v.Set("ingest.domain", *domain)
	}
	if *spoolPath != "" {
		v.Set("source.spool_path", *spoolPath)
	}
	return config.NewFromViper(v), nil
}
