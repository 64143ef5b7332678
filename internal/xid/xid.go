package xid

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// New returns a fresh opaque entity identifier.
func New() string {
	return uuid.NewString()
}

// Short is the leading fragment of an identifier used in human-facing labels.
func Short(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[:4]
}

// NextCode returns prefix followed by one more than the largest trailing
// number found in field across entities, zero-padded to three digits.
// Values without a trailing digit run are skipped. Gaps are never reused.
func NextCode[T any](prefix string, entities []T, field func(T) string) string {
	highest := 0
	for _, entity := range entities {
		n, ok := trailingNumber(field(entity))
		if ok && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, highest+1)
}

func trailingNumber(value string) (int, bool) {
	end := len(value)
	start := end
	for start > 0 && value[start-1] >= '0' && value[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	n, err := strconv.Atoi(value[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
