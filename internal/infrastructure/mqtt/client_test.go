package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nerrad567/movie-api/internal/infrastructure/config"
)

func TestTopics(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		got    func(Topics) string
		want   string
	}{
		{"event", "movieapi", func(tp Topics) string { return tp.Event("user", "registered") }, "movieapi/events/user/registered"},
		{"status", "movieapi", func(tp Topics) string { return tp.SystemStatus() }, "movieapi/system/status"},
		{"custom prefix", "staging/movies/", func(tp Topics) string { return tp.Event("favorite", "added") }, "staging/movies/events/favorite/added"},
		{"empty prefix", "", func(tp Topics) string { return tp.SystemStatus() }, "movieapi/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got(NewTopics(tt.prefix)); got != tt.want {
				t.Errorf("topic = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildStatusPayload(t *testing.T) {
	var p statusPayload
	if err := json.Unmarshal(buildStatusPayload("offline", "movieapi-1", "graceful_shutdown"), &p); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if p.Status != "offline" || p.ClientID != "movieapi-1" || p.Reason != "graceful_shutdown" {
		t.Errorf("payload = %+v", p)
	}
	if p.Timestamp == "" {
		t.Error("payload missing timestamp")
	}

	online := string(buildStatusPayload("online", "movieapi-1", ""))
	if strings.Contains(online, "reason") {
		t.Errorf("online payload should omit reason: %s", online)
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "broker.local", Port: 8883, TLS: true, ClientID: "movieapi"},
		Auth:   config.MQTTAuthConfig{Username: "svc", Password: "secret"},
	}

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "ssl://broker.local:8883" {
		t.Errorf("Servers = %v, want ssl://broker.local:8883", opts.Servers)
	}
	if opts.ClientID != "movieapi" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "svc" {
		t.Errorf("Username = %q", opts.Username)
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Error("TLS config not applied")
	}
}

func TestPublish_Validation(t *testing.T) {
	c := &Client{}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		want    error
	}{
		{"empty topic", "", []byte("{}"), 1, ErrInvalidTopic},
		{"invalid qos", "movieapi/events/user/registered", []byte("{}"), 3, ErrInvalidQoS},
		{"oversized payload", "movieapi/events/user/registered", make([]byte, maxPayloadSize+1), 1, ErrPublishFailed},
		{"not connected", "movieapi/events/user/registered", []byte("{}"), 1, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.want) {
				t.Errorf("Publish() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPublishJSON_EncodingError(t *testing.T) {
	c := &Client{}
	err := c.PublishJSON("movieapi/events/x/y", map[string]any{"bad": make(chan int)})
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("PublishJSON() error = %v, want ErrPublishFailed", err)
	}
}

func TestUnconnectedClient(t *testing.T) {
	c := &Client{}

	if c.IsConnected() {
		t.Error("IsConnected() = true for a client that never connected")
	}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestConnect_BrokerRefused(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "127.0.0.1", Port: 1, ClientID: "movieapi-refused"},
		QoS:    1,
	}

	_, err := Connect(cfg)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}
