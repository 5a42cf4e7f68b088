package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nerrad567/movie-api/internal/infrastructure/mqtt"
)

// Publisher is the part of mqtt.Client used for events.
type Publisher interface {
	PublishJSON(topic string, v any) error
	Topics() mqtt.Topics
}

// MQTTRecorder publishes events on the broker.
type MQTTRecorder struct {
	pub    Publisher
	logger *slog.Logger
}

// NewMQTTRecorder creates a recorder publishing through pub.
func NewMQTTRecorder(pub Publisher, logger *slog.Logger) *MQTTRecorder {
	return &MQTTRecorder{pub: pub, logger: logger}
}

// Record publishes e to {prefix}/events/{entity}/{action}.
func (r *MQTTRecorder) Record(_ context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	topic := r.pub.Topics().Event(e.Entity, e.Action)
	if err := r.pub.PublishJSON(topic, e); err != nil {
		// A disconnected broker is expected while paho reconnects.
		level := slog.LevelWarn
		if errors.Is(err, mqtt.ErrNotConnected) {
			level = slog.LevelDebug
		}
		r.logger.Log(context.Background(), level, "account event not published",
			"topic", topic,
			"error", err,
		)
	}
}
