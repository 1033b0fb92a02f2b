package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"recount/internal/config"
	"recount/internal/server"
	"recount/internal/util"
)

var (
	port    = flag.Int("port", 0, "listen port (overrides config.toml)")
	devMode = flag.Bool("dev", false, "development mode")
	dataDir = flag.String("dataDir", "", "data directory (overrides config.toml)")
)

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Warn("failed to load config, using defaults")
		cfg = config.DefaultConfig()
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if cfg.Server.DevMode {
		log.SetLevel(logrus.DebugLevel)
	}

	srv, err := server.NewServer(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to start")
	}
	defer srv.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		log.WithField("addr", addr).Info("server listening")
		if err := srv.Run(addr); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	if !cfg.Server.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			log.WithField("url", url).Info("open the interface manually")
		}
	} else {
		log.WithField("url", url).Info("development mode")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
}
