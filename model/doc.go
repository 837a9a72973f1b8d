// Package model defines the provider-agnostic abstraction for interacting
// with language models inside AgentTeam.
//
// Core goals:
//   - One synchronous completion contract (ordered messages in, text out)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate deterministic stubbing for tests (ScriptedModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (agents, the team loop) remain decoupled from
// vendor SDKs. Tool calls travel inside the completion text as <tool_call>
// spans, so providers need no function-calling plumbing.
package model
