package align

import "fmt"

// MalformedRecordError reports an input record which could not be
// parsed: an invalid symbol, an empty line or too few fields.
type MalformedRecordError struct {
	Record string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %s: %s", e.Record, e.Reason)
}

// LengthMismatchError reports a record whose length disagrees with the
// established alignment length.
type LengthMismatchError struct {
	Record string
	Len    int
	Want   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("record %s has length %d, alignment length is %d",
		e.Record, e.Len, e.Want)
}
