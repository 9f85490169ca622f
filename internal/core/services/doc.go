// Package services implements the reconciliation core: the naming engine
// that derives deterministic destination names, the reconciler that turns
// a document plus its prior state into a fetch/rename/skip decision, and
// the orchestrator that drives both against a concrete backend.
//
// Services depend only on domain types and driven ports; all I/O happens
// behind the injected interfaces.
package services
