// Package decoder is the streaming façade: it wires an input character
// source through a Tokenizer into a Builder, and exposes the result as a
// pull-based Decoder that publishes one value.Value snapshot per call to
// Next, on every unit of meaningful progress.
package decoder

import (
	"context"
	"encoding/json"

	"github.com/flitsinc/jsonstream/builder"
	"github.com/flitsinc/jsonstream/jsonerr"
	"github.com/flitsinc/jsonstream/token"
	"github.com/flitsinc/jsonstream/value"
)

const defaultMaxDepth = 10000

// Option configures a Decoder at construction time, mirroring the
// functional-options chain on the teacher's anthropic.Model (WithBeta,
// WithMaxTokens, and friends).
type Option func(*config)

type config struct {
	debugger Debugger
	maxDepth int
}

// WithDebugger installs a Debugger that observes every chunk pulled from
// the source and every token the tokenizer emits.
func WithDebugger(d Debugger) Option {
	return func(c *config) { c.debugger = d }
}

// WithMaxDepth overrides the maximum container nesting depth. Exceeding it
// fails the decode with *jsonerr.DepthExceededError instead of growing the
// parser stack without bound.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// Decoder incrementally decodes a single top-level JSON value out of a
// token.CharSource. It is not safe for concurrent use; see RunMany for
// decoding several independent streams at once.
type Decoder struct {
	tokenizer *token.Tokenizer
	builder   *builder.Builder
}

// New returns a Decoder pulling characters from source.
func New(source token.CharSource, opts ...Option) *Decoder {
	cfg := config{debugger: noopDebugger{}, maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := builder.New(cfg.maxDepth)
	debugSource := &debuggingSource{upstream: source, debugger: cfg.debugger}
	debugHandler := &debuggingHandler{inner: b, debugger: cfg.debugger}

	return &Decoder{
		tokenizer: token.NewTokenizer(debugSource, debugHandler),
		builder:   b,
	}
}

// Next blocks until the decoder has made meaningful progress (a new leaf
// value was placed, or an already-open leaf grew) and returns the current
// snapshot. It returns io.EOF-free nil error with the final snapshot once
// the top-level value is complete and the stream's tail has been
// validated as pure whitespace; calling Next again after that returns the
// same finished snapshot with a nil error.
func (d *Decoder) Next(ctx context.Context) (value.Value, error) {
	if d.builder.Finished() {
		val, _ := d.builder.Value()
		return val, nil
	}
	for {
		d.builder.ResetProgress()
		if err := d.tokenizer.Pump(ctx); err != nil {
			return value.Value{}, err
		}
		val, ok := d.builder.Value()
		if d.builder.Progressed() {
			if !ok {
				return value.Value{}, &jsonerr.InternalError{Message: "progress reported with no published value"}
			}
			return val, nil
		}
		if d.builder.Done() {
			if !ok {
				return value.Value{}, &jsonerr.InternalError{Message: "parser stack empty with no published value"}
			}
			d.builder.MarkFinished()
			return val, nil
		}
	}
}

// Finished reports whether the decode has completed and been validated.
func (d *Decoder) Finished() bool { return d.builder.Finished() }

// Iter exposes the snapshot sequence as a range-over-func iterator, for
// `for v := range dec.Iter(ctx)`-style consumption, mirroring the
// teacher's Stream.Iter() pull-to-push adapter.
func (d *Decoder) Iter(ctx context.Context) func(yield func(value.Value, error) bool) {
	return func(yield func(value.Value, error) bool) {
		for {
			alreadyFinished := d.builder.Finished()
			val, err := d.Next(ctx)
			if err != nil {
				yield(value.Value{}, err)
				return
			}
			if !yield(val, nil) || alreadyFinished {
				return
			}
		}
	}
}

// Decode decodes a complete value out of source and unmarshals its final
// JSON representation into target, via encoding/json. This is a
// convenience for callers who don't need intermediate snapshots at all.
func Decode(ctx context.Context, source token.CharSource, target any, opts ...Option) error {
	dec := New(source, opts...)
	var last value.Value
	for {
		val, err := dec.Next(ctx)
		if err != nil {
			return err
		}
		last = val
		if dec.Finished() {
			break
		}
	}
	data, err := json.Marshal(last)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// IterInto is the decode-into-T counterpart to Iter: it round-trips every
// published snapshot, not just the final one, through encoding/json into a
// fresh T and yields it. Fields a snapshot hasn't reached yet are simply
// missing, so T's zero values (or whatever encoding/json leaves untouched)
// stand in until a later snapshot fills them in — a growing record, not a
// one-shot unmarshal.
func IterInto[T any](ctx context.Context, dec *Decoder) func(yield func(T, error) bool) {
	return func(yield func(T, error) bool) {
		for {
			alreadyFinished := dec.Finished()
			val, err := dec.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}

			var out T
			data, err := json.Marshal(val)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if err := json.Unmarshal(data, &out); err != nil {
				var zero T
				yield(zero, err)
				return
			}

			if !yield(out, nil) || alreadyFinished {
				return
			}
		}
	}
}

type debuggingSource struct {
	upstream token.CharSource
	debugger Debugger
}

func (s *debuggingSource) Next(ctx context.Context) ([]rune, bool, error) {
	chunk, ok, err := s.upstream.Next(ctx)
	if ok {
		s.debugger.RawChunk(chunk)
	}
	return chunk, ok, err
}

type debuggingHandler struct {
	inner    token.Handler
	debugger Debugger
}

func (h *debuggingHandler) HandleToken(tok token.Token) error {
	h.debugger.Token(tok)
	return h.inner.HandleToken(tok)
}
