package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mfcoelho/bolso/server"
	"github.com/mfcoelho/bolso/store"
	"go.uber.org/zap"
)

func main() {
	flagSet := flag.NewFlagSet("bolso", flag.ExitOnError)
	dataDir := flagSet.String("data", "./data", "Data directory for account and transaction buckets")
	port := flagSet.Uint("port", 0, "Port to serve the API on, overrides PORT")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	// .env is optional, environment variables win over it
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to set up logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *port == 0 {
		*port = 8080
		if envPort := os.Getenv("PORT"); envPort != "" {
			parsed, err := strconv.ParseUint(envPort, 10, 16)
			if err != nil {
				logger.Fatal("Invalid PORT", zap.String("port", envPort))
			}
			*port = uint(parsed)
		}
	}

	db, err := store.Open(*dataDir, logger)
	if err != nil {
		logger.Fatal("Failed to open data directory", zap.String("dir", *dataDir), zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	err = server.Run(server.Config{
		Addr:         fmt.Sprintf("0.0.0.0:%d", *port),
		BaseCurrency: os.Getenv("BASE_CURRENCY"),
	}, db, logger)
	if err != nil {
		logger.Fatal("Server run failed", zap.Error(err))
	}
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("DEVELOPMENT") == "true" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
