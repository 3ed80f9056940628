// Package app wires the dueDash server runtime: config, logging, storage,
// HTTP routes and the background stats job.
package app
