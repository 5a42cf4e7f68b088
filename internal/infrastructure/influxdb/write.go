package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementAccountEvents counts account activity by action and outcome.
const MeasurementAccountEvents = "account_events"

// WriteAccountEvent records one account event (registration, login, profile
// update, favorite change, deletion). Non-blocking; points are batched.
//
// Parameters:
//   - action: What happened, e.g. "session_login", "favorite_added"
//   - outcome: "success" or "failure"
//
// Example:
//
//	client.WriteAccountEvent("session_login", "failure")
func (c *Client) WriteAccountEvent(action, outcome string) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(accountEventPoint(action, outcome, time.Now()))
}

func accountEventPoint(action, outcome string, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementAccountEvents,
		map[string]string{
			"action":  action,
			"outcome": outcome,
		},
		map[string]any{
			"count": int64(1),
		},
		ts,
	)
}
