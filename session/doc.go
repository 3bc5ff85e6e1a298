// Package session provides the in-memory store of durable sessions, keyed
// case-insensitively by agent identifier. Creation is deduplicated so that
// concurrent first access for one identifier resolves the agent and creates
// the remote thread exactly once.
//
// The store deliberately has no eviction, TTL or capacity bound: sessions
// live for the lifetime of the store, mirroring the process-lifetime cache of
// the hosting service. Hosts can observe growth via Len.
package session
