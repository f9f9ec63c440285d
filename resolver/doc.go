// Package resolver implements the gateway's field-resolution engine.
//
// # Overview
//
// Resolvers are plain functions over a parent value: the query engine (or a
// test) invokes a root resolver for each requested root field and a field
// resolver for each selected nested field, passing the already-resolved
// parent. Resolvers make no assumption about when or whether they are
// invoked, so a nested relationship costs backend calls only when its field
// was actually selected.
//
// # Resilience at the boundary
//
// Every backend call runs through pkg/resilience with a per-(service,
// operation) circuit. Read resolvers absorb exhausted failures into their
// fallback value (empty list or nil) so a query always completes with a
// best-effort result tree; only the create-order mutation surfaces an
// error, and it is never retried.
//
// # Scatter-gather
//
// Order.products fans out one wrapped call per referenced product id, in
// parallel, and merges the successes preserving id order. An individually
// unresolvable id contributes nothing to the result, so the resolved list
// may be shorter than the id list; callers must not assume length equality.
package resolver
