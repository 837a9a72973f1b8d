// Package team implements the orchestrator that lets several specialized
// agents cooperate on one conversation via explicit control transfers.
//
// The Team owns the agent registry, synthesizes a switch_to_<name> tool for
// every ordered agent pair, injects the handoff protocol preamble into every
// agent's instructions, and drives the bounded request/parse/act loop
// against the language model: structured tags in the completion decide
// between answering, thinking, calling a tool or handing the conversation
// to another agent.
//
// A Team instance must not be driven by two concurrent Run calls; callers
// requiring concurrent conversations use one Team per conversation or
// serialize access.
package team
