// Package core provides the foundational domain types shared across
// AgentTeam. It defines:
//
//   - Message (a single role/content entry of a chat transcript)
//   - History (an ordered transcript whose first slot holds the system
//     message of the currently active agent)
//   - ID generation for run correlation
//
// The package intentionally keeps implementation concerns (orchestration,
// model transports, concrete tools) out of scope so higher layers remain
// decoupled from each other.
package core
