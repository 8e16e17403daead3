// Package builder implements the snapshot builder: a token.Handler that
// maintains a parallel parser stack and live container graph, and decides
// when the stream has made meaningful progress worth publishing.
package builder

import (
	"github.com/flitsinc/jsonstream/jsonerr"
	"github.com/flitsinc/jsonstream/token"
	"github.com/flitsinc/jsonstream/value"
)

type frameKind int

const (
	frameInitial frameKind = iota
	frameInString
	frameInArray
	frameInObjectExpectingKey
	frameInObjectExpectingValue
)

// frame is one entry on the builder's parser stack. Only the fields that
// matter for kind are meaningful: acc for frameInString, arr for
// frameInArray, obj (plus key) for the two InObject* kinds.
type frame struct {
	kind frameKind
	acc  string
	arr  *value.LiveArray
	obj  *value.LiveObject
	key  string
}

// Builder assembles immutable value.Value snapshots from a token stream. It
// implements token.Handler, so a Tokenizer can drive it directly.
type Builder struct {
	stack      []frame
	topLevel   value.Value
	haveTop    bool
	progressed bool
	finished   bool
	depth      int
	maxDepth   int
}

// New returns a Builder ready to receive the tokens for one top-level JSON
// value. maxDepth bounds how many containers may be open (nested) at once;
// exceeding it fails with *jsonerr.DepthExceededError rather than growing
// the parser stack unbounded.
func New(maxDepth int) *Builder {
	return &Builder{
		stack:    []frame{{kind: frameInitial}},
		maxDepth: maxDepth,
	}
}

// Progressed reports whether HandleToken has done anything worth publishing
// a new snapshot for since the last ResetProgress call.
func (b *Builder) Progressed() bool { return b.progressed }

// ResetProgress clears the progress flag; callers do this once per Next()
// attempt before pumping the tokenizer again.
func (b *Builder) ResetProgress() { b.progressed = false }

// Done reports whether the parser stack has emptied, meaning the top-level
// value is complete and only trailing-content validation remains.
func (b *Builder) Done() bool { return len(b.stack) == 0 }

// Finished reports whether the stream has been fully validated (the
// trailing-content check has run).
func (b *Builder) Finished() bool { return b.finished }

// MarkFinished records that trailing-content validation has completed.
func (b *Builder) MarkFinished() { b.finished = true }

// Value returns the most recently published snapshot, and whether one has
// been produced yet.
func (b *Builder) Value() (value.Value, bool) { return b.topLevel, b.haveTop }

// HandleToken implements token.Handler.
func (b *Builder) HandleToken(tok token.Token) error {
	switch tok.Kind {
	case token.Null:
		return b.placeLeaf(value.Null())
	case token.Boolean:
		return b.placeLeaf(value.Bool(tok.Bool))
	case token.Number:
		return b.placeLeaf(value.Number(tok.Num))
	case token.StringStart:
		return b.handleStringStart()
	case token.StringMiddle:
		return b.handleStringMiddle(tok.Text)
	case token.StringEnd:
		return b.handleStringEnd()
	case token.ArrayStart:
		return b.handleContainerStart(true)
	case token.ObjectStart:
		return b.handleContainerStart(false)
	case token.ArrayEnd:
		return b.handleArrayEnd()
	case token.ObjectEnd:
		return b.handleObjectEnd()
	default:
		return &jsonerr.InternalError{Message: "unknown token kind reached builder"}
	}
}

// placeLeaf is handle_value_token: it places a complete, already-known leaf
// value (null, a boolean, a number, or a freshly opened empty container)
// into whatever the current top frame is, transitioning an
// InObjectExpectingValue frame to InObjectExpectingKey as it goes. Strings
// use their own placement path, since their frame transition is deferred to
// StringEnd rather than happening up front.
func (b *Builder) placeLeaf(leaf value.Value) error {
	b.progressed = true
	if len(b.stack) == 0 {
		return &jsonerr.InternalError{Message: "value token with empty parser stack"}
	}
	top := &b.stack[len(b.stack)-1]
	switch top.kind {
	case frameInitial:
		b.stack = b.stack[:len(b.stack)-1]
		b.topLevel = leaf
		b.haveTop = true
	case frameInArray:
		top.arr.Append(leaf)
		b.refresh()
	case frameInObjectExpectingValue:
		key, obj := top.key, top.obj
		*top = frame{kind: frameInObjectExpectingKey, key: key, obj: obj}
		obj.Set(key, leaf)
		b.refresh()
	default:
		return &jsonerr.InternalError{Message: "value token in unexpected parser state"}
	}
	return nil
}

func (b *Builder) handleContainerStart(isArray bool) error {
	if b.depth >= b.maxDepth {
		return &jsonerr.DepthExceededError{MaxDepth: b.maxDepth}
	}
	var leaf value.Value
	var child frame
	if isArray {
		arr := value.NewLiveArray()
		leaf = arr.ToValue()
		child = frame{kind: frameInArray, arr: arr}
	} else {
		obj := value.NewLiveObject()
		leaf = obj.ToValue()
		child = frame{kind: frameInObjectExpectingKey, obj: obj}
	}
	if err := b.placeLeaf(leaf); err != nil {
		return err
	}
	b.stack = append(b.stack, child)
	b.depth++
	return nil
}

// handleStringStart implements the key/value fork: a string opened while
// the enclosing object is waiting for its next key accumulates silently; a
// string opened anywhere else is provisionally published as an empty
// string into its container so later StringMiddle/StringEnd tokens have a
// slot to update.
func (b *Builder) handleStringStart() error {
	if len(b.stack) == 0 {
		return &jsonerr.InternalError{Message: "string token with empty parser stack"}
	}
	top := &b.stack[len(b.stack)-1]
	if top.kind == frameInObjectExpectingKey {
		b.stack = append(b.stack, frame{kind: frameInString})
		return nil
	}
	b.progressed = true
	switch top.kind {
	case frameInitial:
		b.stack = b.stack[:len(b.stack)-1]
		b.topLevel = value.String("")
		b.haveTop = true
	case frameInArray:
		top.arr.Append(value.String(""))
		b.refresh()
	case frameInObjectExpectingValue:
		top.obj.Set(top.key, value.String(""))
		b.refresh()
	default:
		return &jsonerr.InternalError{Message: "string token in unexpected parser state"}
	}
	b.stack = append(b.stack, frame{kind: frameInString})
	return nil
}

func (b *Builder) handleStringMiddle(chunk string) error {
	if len(b.stack) == 0 {
		return &jsonerr.InternalError{Message: "string chunk with empty parser stack"}
	}
	top := &b.stack[len(b.stack)-1]
	if top.kind != frameInString {
		return &jsonerr.InternalError{Message: "string chunk outside a string"}
	}
	top.acc += chunk

	if len(b.stack) < 2 {
		b.progressed = true
		b.topLevel = value.String(top.acc)
		b.haveTop = true
		return nil
	}
	parent := &b.stack[len(b.stack)-2]
	if parent.kind == frameInObjectExpectingKey {
		return nil
	}
	b.progressed = true
	switch parent.kind {
	case frameInArray:
		parent.arr.ReplaceLast(value.String(top.acc))
	case frameInObjectExpectingValue:
		parent.obj.Set(parent.key, value.String(top.acc))
	default:
		return &jsonerr.InternalError{Message: "string accumulating under unexpected parent frame"}
	}
	b.refresh()
	return nil
}

func (b *Builder) handleStringEnd() error {
	if len(b.stack) == 0 {
		return &jsonerr.InternalError{Message: "string end with empty parser stack"}
	}
	top := b.stack[len(b.stack)-1]
	if top.kind != frameInString {
		return &jsonerr.InternalError{Message: "string end outside a string"}
	}
	acc := top.acc
	b.stack = b.stack[:len(b.stack)-1]

	if len(b.stack) == 0 {
		b.topLevel = value.String(acc)
		b.haveTop = true
		return nil
	}
	parent := &b.stack[len(b.stack)-1]
	switch parent.kind {
	case frameInArray:
		parent.arr.ReplaceLast(value.String(acc))
		b.refresh()
	case frameInObjectExpectingValue:
		key := parent.key
		parent.obj.Set(key, value.String(acc))
		*parent = frame{kind: frameInObjectExpectingKey, key: key, obj: parent.obj}
		b.refresh()
	case frameInObjectExpectingKey:
		*parent = frame{kind: frameInObjectExpectingValue, key: acc, obj: parent.obj}
	default:
		return &jsonerr.InternalError{Message: "string end under unexpected parent frame"}
	}
	return nil
}

func (b *Builder) handleArrayEnd() error {
	if len(b.stack) == 0 || b.stack[len(b.stack)-1].kind != frameInArray {
		return &jsonerr.InternalError{Message: "array end outside an array"}
	}
	b.stack = b.stack[:len(b.stack)-1]
	b.depth--
	return nil
}

func (b *Builder) handleObjectEnd() error {
	if len(b.stack) == 0 {
		return &jsonerr.InternalError{Message: "object end with empty parser stack"}
	}
	kind := b.stack[len(b.stack)-1].kind
	if kind != frameInObjectExpectingKey && kind != frameInObjectExpectingValue {
		return &jsonerr.InternalError{Message: "object end outside an object"}
	}
	b.stack = b.stack[:len(b.stack)-1]
	b.depth--
	return nil
}

// refresh walks the parser stack from tip to root, writing each container
// frame's current snapshot into its parent's slot, then re-snapshots the
// root container into the published top-level value. It is the only place
// that touches topLevel once a container is open.
func (b *Builder) refresh() {
	for i := len(b.stack) - 1; i >= 1; i-- {
		child := b.stack[i]
		var snap value.Value
		switch child.kind {
		case frameInArray:
			snap = child.arr.ToValue()
		case frameInObjectExpectingKey, frameInObjectExpectingValue:
			snap = child.obj.ToValue()
		default:
			continue
		}
		parent := &b.stack[i-1]
		switch parent.kind {
		case frameInArray:
			parent.arr.ReplaceLast(snap)
		case frameInObjectExpectingValue:
			parent.obj.Set(parent.key, snap)
		case frameInObjectExpectingKey:
			// placeLeaf already flipped this frame to
			// InObjectExpectingKey before the child was pushed, so the
			// child's key lives in parent.key for its whole lifetime,
			// not just the moment it closes.
			parent.obj.Set(parent.key, snap)
		}
	}
	if len(b.stack) == 0 {
		return
	}
	root := b.stack[0]
	switch root.kind {
	case frameInArray:
		b.topLevel = root.arr.ToValue()
		b.haveTop = true
	case frameInObjectExpectingKey, frameInObjectExpectingValue:
		b.topLevel = root.obj.ToValue()
		b.haveTop = true
	}
}
