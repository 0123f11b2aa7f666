/*
Package metrics instruments the client with Prometheus collectors.

NewCollectors returns an unregistered set of counters and histograms for
request outcomes, master-discovery events, retries, and per-node
connection state. Callers register them against their own
prometheus.Registerer; the package never touches the default registry.

Timer is a small helper for observing elapsed durations into a
histogram, used by the orchestrator around every dispatched request.
*/
package metrics
