// Package mqtt publishes Movie API account events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - JSON event publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - A retained online/offline status message
//
// The client is publish-only. Downstream consumers (notification workers,
// analytics) subscribe to the event topics themselves.
//
// # Topics
//
//	{prefix}/events/{entity}/{action}   account and favorites events
//	{prefix}/system/status              retained online/offline status
//
// The prefix defaults to "movieapi" (mqtt.topic_prefix).
//
// # Security Considerations
//
//   - Enable TLS for production deployments (cfg.Broker.TLS=true)
//   - Event payloads carry usernames and IDs, never passwords or tokens
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := client.Topics().Event("user", "registered")
//	err = client.PublishJSON(topic, event)
package mqtt
