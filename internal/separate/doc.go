// Package separate dispatches a separation request to the selected tool
// adapter and owns the surrounding run mechanics: input checks, output
// directory lifecycle, the model cache lock, stem collection, and history
// recording.
//
// A run is a single synchronous batch job. Nothing is retried; the first
// error aborts the run, partial output is cleaned up unless configured
// otherwise, and the error is surfaced to the CLI verbatim.
package separate
