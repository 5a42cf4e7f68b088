package audit

import "context"

// CounterWriter is the part of influxdb.Client used for events.
type CounterWriter interface {
	WriteAccountEvent(action, outcome string)
}

// InfluxRecorder counts events in InfluxDB. Writes are batched by the
// client, so Record does not block.
type InfluxRecorder struct {
	w CounterWriter
}

// NewInfluxRecorder creates a recorder writing through w.
func NewInfluxRecorder(w CounterWriter) *InfluxRecorder {
	return &InfluxRecorder{w: w}
}

// Record writes one account_events point tagged entity_action and outcome.
func (r *InfluxRecorder) Record(_ context.Context, e Event) {
	r.w.WriteAccountEvent(e.Entity+"_"+e.Action, e.Outcome)
}
