// Package audit publishes account activity: registrations, logins, profile
// changes, deletions and favorite edits.
//
// A Recorder receives one Event per completed account operation. The
// MQTT recorder publishes it as JSON on movieapi/events/{entity}/{action};
// the InfluxDB recorder counts it in the account_events measurement. Both
// are optional and are combined with Multi.
//
// Recording never fails the operation that triggered it. Delivery problems
// are logged and dropped.
package audit
