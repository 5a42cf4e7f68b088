// Package influxdb records Movie API account activity in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched non-blocking writes and health monitoring.
//
// # Purpose
//
// Each account event (registration, login, profile update, favorite change,
// deletion) becomes one point in the account_events measurement, tagged by
// action and outcome. Dashboards sum the count field to chart sign-ups,
// login failures and favorite churn.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteAccountEvent("user_registered", "success")
//
// # Error Handling
//
// Writes are non-blocking; batch errors are delivered to the SetOnError
// callback. Connection and health check errors are returned directly.
package influxdb
