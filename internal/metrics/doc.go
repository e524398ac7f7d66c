// Package metrics records catalog call and lookup cache counters for one
// subseek invocation.
//
// A Recorder owns a private Prometheus registry. The CLI runs once and exits,
// so nothing is scraped; WriteTextfile dumps the registry in the text
// exposition format for the node exporter textfile collector.
package metrics
