package parser

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const initialContexts = 8

// MaxDepth bounds container nesting. Deeper input is rejected before the
// recursion can exhaust the goroutine stack.
const MaxDepth = 10000

// ParseContext records a container under construction and the key or index
// under which it attaches to its parent.
type ParseContext struct {
	parent    int
	Object    any
	FieldName any
}

// contextStack keeps the open containers in one growable slice. Parents are
// indices into the slice, -1 for the root.
type contextStack struct {
	cells   []ParseContext
	current int
	logger  *zap.Logger
}

type contextMark struct {
	size    int
	current int
}

func newContextStack(logger *zap.Logger) contextStack {
	return contextStack{
		cells:   make([]ParseContext, 0, initialContexts),
		current: -1,
		logger:  logger,
	}
}

// Depth returns the number of open containers.
func (s *contextStack) Depth() int { return len(s.cells) }

// Current returns the innermost open container, or nil.
func (s *contextStack) Current() *ParseContext {
	if s.current < 0 {
		return nil
	}
	return &s.cells[s.current]
}

// Parent returns the context enclosing c, or nil at the root.
func (s *contextStack) Parent(c *ParseContext) *ParseContext {
	if c == nil || c.parent < 0 {
		return nil
	}
	return &s.cells[c.parent]
}

// SetContext opens object under fieldName inside the current context.
func (s *contextStack) SetContext(object, fieldName any) int {
	return s.SetContextWithParent(s.current, object, fieldName)
}

// SetContextWithParent opens object under fieldName inside parent.
func (s *contextStack) SetContextWithParent(parent int, object, fieldName any) int {
	if len(s.cells) == cap(s.cells) {
		grown := make([]ParseContext, len(s.cells), cap(s.cells)*3/2+1)
		copy(grown, s.cells)
		s.cells = grown
		s.logger.Debug("grew parse context stack", zap.Int("capacity", cap(grown)))
	}
	s.cells = append(s.cells, ParseContext{parent: parent, Object: object, FieldName: fieldName})
	s.current = len(s.cells) - 1
	return s.current
}

// PopContext closes the innermost context and clears its slot.
func (s *contextStack) PopContext() {
	n := len(s.cells)
	if n == 0 {
		return
	}
	top := s.cells[n-1]
	s.cells[n-1] = ParseContext{}
	s.cells = s.cells[:n-1]
	s.current = top.parent
}

func (s *contextStack) mark() contextMark {
	return contextMark{size: len(s.cells), current: s.current}
}

// restore pops everything opened since m.
func (s *contextStack) restore(m contextMark) {
	for len(s.cells) > m.size {
		s.PopContext()
	}
	s.current = m.current
}

// Path renders the chain of open containers as $.key[index].
func (s *contextStack) Path() string {
	var parts []string
	for i := s.current; i >= 0; i = s.cells[i].parent {
		switch f := s.cells[i].FieldName.(type) {
		case int:
			parts = append(parts, "["+strconv.Itoa(f)+"]")
		case string:
			parts = append(parts, "."+f)
		}
	}
	var b strings.Builder
	b.WriteByte('$')
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
	}
	return b.String()
}
