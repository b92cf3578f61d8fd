package analytics

import (
	"context"
	"encoding/json"
	"time"

	"connectz/internal/judge"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

const EventGameJudged = "game_judged"

type Event struct {
	Event     string         `json:"event"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: writer}
}

func (p *Producer) Publish(ctx context.Context, event string, payload map[string]any) {
	if p == nil || p.writer == nil {
		return
	}
	data, err := json.Marshal(Event{Event: event, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		log.Printf("kafka encode failed: %v", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: data}); err != nil {
		log.Printf("kafka publish failed: %v", err)
	}
}

// PublishReport emits a game_judged event. via names the front-end that
// judged the run ("cli", "http", "ws").
func (p *Producer) PublishReport(ctx context.Context, rep judge.Report, via string) {
	payload := map[string]any{
		"runId":    rep.ID,
		"outcome":  rep.Outcome.String(),
		"code":     rep.Outcome.Code(),
		"moves":    rep.Moves,
		"via":      via,
		"duration": rep.EndedAt.Sub(rep.StartedAt).Seconds(),
	}
	if rep.Err != nil {
		payload["error"] = rep.Err.Error()
	}
	p.Publish(ctx, EventGameJudged, payload)
}

func (p *Producer) Close() {
	if p == nil || p.writer == nil {
		return
	}
	_ = p.writer.Close()
}
