// Package tag parses the structured spans agents embed in free-form model
// output. The wire protocol uses three tags:
//
//	<response>...</response>   terminal answer for the user
//	<thought>...</thought>     internal reasoning, informational only
//	<tool_call>{...}</tool_call>  JSON tool invocation request
//
// Extract pulls every well-formed span of a single tag; Scan walks the text
// once and yields all protocol spans typed and in order of appearance. Both
// tolerate surrounding whitespace and multiline content, skip unclosed or
// foreign tags and never fail on malformed input.
package tag
