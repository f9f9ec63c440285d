// Package breaker provides a windowed circuit breaker for downstream calls.
//
// # Overview
//
// Each breaker guards one (service, operation) pair and tracks a rolling
// window of the most recent call outcomes. Once the window is full and the
// failure ratio meets the configured threshold, the breaker opens: calls
// fail immediately with ErrCircuitOpen, without touching the network, for a
// cool-down period. After the cool-down a single trial call is admitted
// (half-open); its success closes the breaker and clears the window, its
// failure reopens the cool-down.
//
// # Usage
//
//	b := breaker.New(breaker.DefaultConfig())
//	if err := b.Allow(); err != nil {
//	    return err // circuit open, skip the call
//	}
//	result, err := call()
//	b.Record(err == nil)
//
// A Registry hands out one breaker per (service, operation) so that all
// concurrent requests observe shared state.
//
// # Concurrency
//
// All state transitions happen under a single mutex; outcome recording and
// open/half-open/closed transitions never race. In the half-open state
// exactly one caller is admitted; concurrent callers see ErrCircuitOpen
// until the trial resolves.
package breaker
