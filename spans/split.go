// Copyright (c) 2025 Visvasity LLC

package spans

// Split returns markers for the sub-views of c separated by sep, with the same
// semantics as strings.Split except that an empty sep splits the view into
// single elements.
func Split[B any, E comparable](c Cursor[B, E], sep B) []Marker {
	n := c.accessor().Len(sep)
	if n == 0 {
		ms := make([]Marker, 0, c.Len())
		for !c.Empty() {
			ms = append(ms, c.Take(1))
		}
		return ms
	}

	var ms []Marker
	start := 0
	for off := 0; off+n <= c.Len(); {
		if !HasPrefix(c.Sub(off, c.Len()), sep) {
			off++
			continue
		}
		ms = append(ms, c.Sub(start, off).Marker())
		off += n
		start = off
	}
	return append(ms, c.Sub(start, c.Len()).Marker())
}

// SplitFunc returns markers for the maximal runs of elements of c that do not
// satisfy isSep, like strings.FieldsFunc.
func SplitFunc[B, E any](c Cursor[B, E], isSep func(E) bool) []Marker {
	var ms []Marker
	notSep := func(x E) bool { return !isSep(x) }
	for {
		c.SkipWhile(isSep)
		if c.Empty() {
			return ms
		}
		ms = append(ms, c.TakeWhile(notSep))
	}
}

// SplitText splits the text buf on sep.
func SplitText[T Text](buf, sep T) []Marker {
	return Split(NewTextCursor(buf), sep)
}
