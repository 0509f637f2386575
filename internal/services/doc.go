// Package services defines the shared error taxonomy for external tool
// integrations and hosts the clients that drive them.
//
// Per-file and per-track failures never crash a batch; they are wrapped
// with a sentinel marker so the orchestrator can map them to an outcome
// status. Only configuration-level failures abort a run.
package services
