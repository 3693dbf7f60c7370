// Package cstr models C-style owned strings: NUL-terminated byte buffers
// handed out by an Allocator, duplicated by a Copier and grouped into
// sentinel-terminated lists.
package cstr

import "bytes"

// Str is an owned, NUL-terminated byte buffer. The bytes before the first
// NUL are its contents.
type Str []byte

// Make builds a terminated Str from s outside of any Allocator. It is meant
// for inputs; owned copies come from a Copier.
func Make(s string) Str {
	b := make(Str, len(s)+1)
	copy(b, s)
	return b
}

// Len returns the number of bytes before the terminator. An unterminated
// buffer reports its full length.
func (s Str) Len() int {
	if i := bytes.IndexByte(s, 0); i >= 0 {
		return i
	}
	return len(s)
}

func (s Str) String() string {
	return string(s[:s.Len()])
}
