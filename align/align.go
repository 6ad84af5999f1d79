// Package align loads amino-acid alignments: one ancestral/outgroup
// reference sequence plus a stream of query records, all sharing a
// single coordinate system. Symbols are normalized on loading, so the
// rest of the pipeline only ever sees upper-case letters, '-', '*'
// and '?'.
package align

import (
	"fmt"
)

// The alphabet covers the 26 letters plus three extra classes: a
// deletion, a stop and a catch-all for anything else printable.
const (
	AlphaLen = 'Z' - 'A' + 1 + 3
	DelIdx   = AlphaLen - 3
	StopIdx  = AlphaLen - 2
	ElseIdx  = AlphaLen - 1
)

// Display bytes for the three non-letter classes.
const (
	DelSym  byte = '-'
	StopSym byte = '*'
	ElseSym byte = '?'
)

// Normalize maps a raw input byte onto the alphabet: letters are
// folded to upper case, '-' and '*' pass through, any other printable
// byte becomes '?'. Control bytes and whitespace have no business
// inside an aligned sequence and are rejected.
func Normalize(b byte) (byte, bool) {
	switch {
	case b >= 'A' && b <= 'Z':
		return b, true
	case b >= 'a' && b <= 'z':
		return b - 'a' + 'A', true
	case b == DelSym || b == StopSym:
		return b, true
	case b > ' ' && b < 127:
		return ElseSym, true
	}
	return 0, false
}

// ClassIndex maps a normalized symbol to its row in a count table.
func ClassIndex(b byte) int {
	switch {
	case b >= 'A' && b <= 'Z':
		return int(b - 'A')
	case b == DelSym:
		return DelIdx
	case b == StopSym:
		return StopIdx
	}
	return ElseIdx
}

// ClassSymbol is the inverse of ClassIndex.
func ClassSymbol(i int) byte {
	switch i {
	case DelIdx:
		return DelSym
	case StopIdx:
		return StopSym
	case ElseIdx:
		return ElseSym
	}
	return byte(i) + 'A'
}

// Sequence is one aligned query record with its name.
type Sequence struct {
	Name string
	Seq  []byte
}

// Alignment is the reference plus the ordered query records. All rows
// have the same length; position i refers to the same alignment column
// in every row.
type Alignment struct {
	Ref     []byte
	Queries []Sequence
	Length  int
}

// NQueries returns the number of query records.
func (a *Alignment) NQueries() int { return len(a.Queries) }

// Rows returns the query sequences in input order.
func (a *Alignment) Rows() [][]byte {
	rows := make([][]byte, len(a.Queries))
	for i := range a.Queries {
		rows[i] = a.Queries[i].Seq
	}
	return rows
}

// New checks that the reference and every query agree on one alignment
// length and wraps them into an Alignment.
func New(ref []byte, queries []Sequence) (*Alignment, error) {
	want := len(ref)
	if want == 0 {
		return nil, &MalformedRecordError{Record: "reference", Reason: "empty sequence"}
	}
	for _, q := range queries {
		if len(q.Seq) != want {
			return nil, &LengthMismatchError{Record: q.Name, Len: len(q.Seq), Want: want}
		}
	}
	return &Alignment{Ref: ref, Queries: queries, Length: want}, nil
}

// FromStrings builds an alignment from literal sequences. The queries
// get generated names (q1, q2, ...). Mostly useful in tests and small
// tools.
func FromStrings(ref string, queries ...string) (*Alignment, error) {
	r, err := normalizeSeq("reference", ref)
	if err != nil {
		return nil, err
	}
	qs := make([]Sequence, 0, len(queries))
	for i, q := range queries {
		name := fmt.Sprint("q", i+1)
		s, err := normalizeSeq(name, q)
		if err != nil {
			return nil, err
		}
		qs = append(qs, Sequence{Name: name, Seq: s})
	}
	return New(r, qs)
}

// normalizeSeq maps a raw sequence string onto the alphabet.
func normalizeSeq(name, raw string) ([]byte, error) {
	if len(raw) == 0 {
		return nil, &MalformedRecordError{Record: name, Reason: "empty sequence"}
	}
	s := make([]byte, len(raw))
	for i := 0; i < len(raw); i++ {
		c, ok := Normalize(raw[i])
		if !ok {
			return nil, &MalformedRecordError{
				Record: name,
				Reason: fmt.Sprintf("invalid symbol %q at position %d", raw[i], i+1),
			}
		}
		s[i] = c
	}
	return s, nil
}
