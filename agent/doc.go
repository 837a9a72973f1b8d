// Package agent defines the Agent value type: a named bundle of prompt
// instructions, an owned tool set and a set of permitted handoff targets.
//
// Agents carry no loop logic. The team package drives orchestration; an
// Agent only knows how to render its system prompt (base instructions plus
// injected sections such as the handoff preamble and its tool signatures)
// and to answer a single inspection turn via Ask.
package agent
