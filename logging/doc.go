// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer GateLogger with contextual
// helpers (component, task, invocation) and domain specific logging helpers
// for credential acquisition, run polling and gateway routing.
package logging
