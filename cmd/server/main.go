package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"connectz/internal/analytics"
	"connectz/internal/server"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}
	setLogLevel(getEnv("LOG_LEVEL", "info"))

	// Check for PORT first (used by Render, Fly.io, Heroku, etc.)
	port := os.Getenv("PORT")
	var addr string
	if port != "" {
		addr = ":" + port
	} else {
		addr = getEnv("ADDR", ":8080")
	}
	idle := durationEnv("SESSION_IDLE_TIMEOUT", 60*time.Second)
	maxBody := int64Env("MAX_BODY_BYTES", 1<<20)

	cfg := server.Config{
		IdleTimeout:  idle,
		MaxBodyBytes: maxBody,
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		topic := getEnv("KAFKA_TOPIC", "connectz-results")
		producer := analytics.NewProducer(strings.Split(brokers, ","), topic)
		defer producer.Close()
		cfg.Analytics = producer
	}

	srv := server.New(cfg)

	log.Printf("server listening on %s", addr)
	if err := srv.Run(addr); err != nil {
		log.Fatal(err)
	}
}

func setLogLevel(name string) {
	level, err := log.ParseLevel(name)
	if err != nil {
		log.Warnf("unknown LOG_LEVEL %q, using info", name)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return time.Duration(parsed) * time.Second
		}
	}
	return fallback
}

func int64Env(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
		log.Printf("invalid integer value for %s: %s, using default: %d", key, v, fallback)
	}
	return fallback
}
