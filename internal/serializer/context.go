package serializer

import (
	"strconv"
	"strings"
)

// SerialContext links a value being written to its ancestors.
type SerialContext struct {
	Parent    *SerialContext
	Object    any
	FieldName any
}

// Path renders the chain from the root as $.key[index].
func (c *SerialContext) Path() string {
	if c == nil {
		return "$"
	}
	var parts []string
	for n := c; n != nil; n = n.Parent {
		switch f := n.FieldName.(type) {
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
