package chat

import "unicode/utf8"

// Reveal produces successive prefixes of a completed reply so the
// presentation layer can show it appearing incrementally. It is purely
// cosmetic: it never touches persisted state, and the driving timer lives
// outside this package. Prefixes grow by whole runes so multi-byte text is
// never split mid-character.
type Reveal struct {
	full string
	pos  int
}

// NewReveal builds a producer over a completed reply.
func NewReveal(content string) *Reveal {
	return &Reveal{full: content}
}

// Next returns the next prefix and whether the full content has been
// produced. After done, Next keeps returning the full content.
func (r *Reveal) Next() (string, bool) {
	if r.pos >= len(r.full) {
		return r.full, true
	}
	_, size := utf8.DecodeRuneInString(r.full[r.pos:])
	r.pos += size
	return r.full[:r.pos], r.pos >= len(r.full)
}

// Restart rewinds the producer to the empty prefix.
func (r *Reveal) Restart() {
	r.pos = 0
}

// Remaining reports how many bytes have not yet been revealed. Useful for
// length-proportional cadences.
func (r *Reveal) Remaining() int {
	return len(r.full) - r.pos
}
