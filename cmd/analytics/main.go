package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"connectz/internal/analytics"

	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}
	brokers := splitBrokers(getenv("KAFKA_BROKERS", "localhost:9092"))
	topic := getenv("KAFKA_TOPIC", "connectz-results")

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: "connectz-analytics",
	})
	defer reader.Close()

	log.Printf("analytics consumer listening on %s topic=%s", strings.Join(brokers, ","), topic)

	metrics := analytics.NewMetrics()

	// Print stats every 30 seconds
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		for range ticker.C {
			metrics.PrintStats()
		}
	}()

	for {
		msg, err := reader.ReadMessage(context.Background())
		if err != nil {
			log.Fatalf("read error: %v", err)
		}
		var e analytics.Event
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			log.Printf("failed to unmarshal event: %v", err)
			continue
		}
		metrics.Record(e)

		log.WithFields(log.Fields{
			"event":   e.Event,
			"run":     e.Payload["runId"],
			"outcome": e.Payload["outcome"],
		}).Info("event received")
	}
}

// splitBrokers parses a comma-separated KAFKA_BROKERS value.
func splitBrokers(v string) []string {
	var brokers []string
	for _, b := range strings.Split(v, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
