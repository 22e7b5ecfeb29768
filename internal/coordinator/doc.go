// Package coordinator applies every record operation to two independent
// stores and reports per-store outcomes.
//
// The stores are never merged and never locked together. Reads return both
// lists verbatim; writes run the same mutation against each store in turn,
// and an operation succeeds when at least one store succeeded. Load and save
// problems are absorbed by the stores and surfaced here as degradation on the
// returned Result, not as errors.
package coordinator
