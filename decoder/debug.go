package decoder

import (
	"fmt"

	"github.com/flitsinc/jsonstream/token"
)

// Debugger receives a trace of everything a Decoder reads and emits. It
// generalizes the teacher's llms.Debugger (RawRequest/RawEvent) to this
// package's two observable events: a chunk pulled from the character
// source, and a token the tokenizer emits.
type Debugger interface {
	RawChunk(chunk []rune)
	Token(tok token.Token)
}

// noopDebugger is the default Debugger, installed when the caller never
// calls WithDebugger.
type noopDebugger struct{}

func (noopDebugger) RawChunk([]rune)      {}
func (noopDebugger) Token(token.Token) {}

// StdOutDebugger prints every chunk and token to standard output, mirroring
// llms.StdOutDebugger's role as the library's simplest built-in tracer.
type StdOutDebugger struct{}

func (StdOutDebugger) RawChunk(chunk []rune) {
	fmt.Printf("jsonstream: chunk %q\n", string(chunk))
}

func (StdOutDebugger) Token(tok token.Token) {
	fmt.Printf("jsonstream: token %s\n", tok)
}
