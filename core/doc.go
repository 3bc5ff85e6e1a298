// Package core provides the foundational domain types used by AgentGate. It
// defines the vocabulary shared by every other package:
//
//   - AgentRef / Agent (remote agent definitions, by reference or resolved)
//   - Thread (durable server-held conversation history)
//   - Run (one asynchronous invocation of an agent over a thread)
//   - Message (an immutable conversational turn)
//   - Session (the local pairing of a resolved agent with its thread)
//
// The package intentionally keeps implementation concerns (remote transport,
// credential acquisition, orchestration) out of scope, exposing small value
// types and interfaces so backends can be swapped or faked in tests.
package core
