package gradient

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator mints blob ids. Each call must return a value never returned
// before by the same generator.
type IDGenerator func() string

// UUIDs returns a generator of random (version 4) UUID strings.
func UUIDs() IDGenerator {
	return uuid.NewString
}

// Sequence returns a monotonic counter generator yielding prefix1,
// prefix2, ... The counter belongs to the returned generator alone.
func Sequence(prefix string) IDGenerator {
	var n atomic.Uint64
	return func() string {
		return prefix + strconv.FormatUint(n.Add(1), 10)
	}
}
