// Package strsep splits mutable byte buffers in place, the way strsep(3)
// walks a C string.
package strsep

// byteSet marks which byte values are delimiters.
type byteSet [256]bool

func makeByteSet(delims string) (set byteSet) {
	for i := 0; i < len(delims); i++ {
		set[delims[i]] = true
	}
	return set
}

// index returns the offset of the earliest byte of b in the set, or -1.
func (s *byteSet) index(b []byte) int {
	for i, c := range b {
		if s[c] {
			return i
		}
	}
	return -1
}

// Sep returns the next field of *cursor. The field ends at the earliest byte
// that appears in delims, whichever delimiter it is. That byte is overwritten
// with NUL and *cursor is advanced past it. When no delimiter remains the
// whole remainder is returned and *cursor is set to nil.
//
// An exhausted cursor (nil) yields nil, false. Delimiters are bytes, not
// runes.
func Sep(cursor *[]byte, delims string) (tok []byte, ok bool) {
	if cursor == nil || *cursor == nil {
		return nil, false
	}
	buf := *cursor
	set := makeByteSet(delims)
	i := set.index(buf)
	if i < 0 {
		*cursor = nil
		return buf, true
	}
	buf[i] = 0
	*cursor = buf[i+1:]
	return buf[:i], true
}

// Split runs Sep over a copy of s until the cursor is exhausted and returns
// every field, empty ones included.
func Split(s, delims string) []string {
	buf := make([]byte, len(s))
	copy(buf, s)

	var fields []string
	for {
		tok, ok := Sep(&buf, delims)
		if !ok {
			return fields
		}
		fields = append(fields, string(tok))
	}
}
