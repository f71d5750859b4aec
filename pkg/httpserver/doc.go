// Package httpserver runs the session service's HTTP handler with graceful
// shutdown and provides its health endpoints.
//
// Run binds the listener, then blocks until the context is cancelled,
// SIGINT or SIGTERM arrives, or Shutdown is called; in-flight requests get
// Config.ShutdownTimeout to finish. Config is bound to HTTP_* environment
// variables and NewFromConfig layers it over DefaultConfig.
//
// LivenessHandler and ReadinessHandler back the /healthz and /readyz probes;
// readiness runs named Check probes such as a store's Ping.
package httpserver
