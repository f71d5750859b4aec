package session

import (
	"encoding/binary"
	"slices"
)

// Stack is an ordered list of identifiers. The last element is current.
type Stack []ID

// Current returns the top identifier or None.
func (s Stack) Current() ID {
	if len(s) == 0 {
		return None
	}
	return s[len(s)-1]
}

func (s Stack) Len() int {
	return len(s)
}

func (s Stack) IsEmpty() bool {
	return len(s) == 0
}

// Frames returns a copy of the identifiers, bottom first.
func (s Stack) Frames() []ID {
	return slices.Clone([]ID(s))
}

// Contains reports whether id is anywhere in the stack.
func (s Stack) Contains(id ID) bool {
	return slices.Contains(s, id)
}

func (s Stack) Equal(other Stack) bool {
	return slices.Equal(s, other)
}

// Pack returns the byte form authenticated by the cookie HMAC: every
// identifier as a 2-byte big-endian length followed by its bytes, in order.
func (s Stack) Pack() []byte {
	size := 0
	for _, id := range s {
		size += 2 + len(id)
	}

	buf := make([]byte, 0, size)
	for _, id := range s {
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(id)))
		buf = append(buf, id...)
	}
	return buf
}

// with returns a new stack with id on top; s is not modified.
func (s Stack) with(id ID) Stack {
	out := make(Stack, len(s), len(s)+1)
	copy(out, s)
	return append(out, id)
}

// below returns a copy of the stack without its top frame.
func (s Stack) below() Stack {
	if len(s) == 0 {
		return nil
	}
	return slices.Clone(s[:len(s)-1])
}
