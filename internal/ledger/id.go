package ledger

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns the millisecond clock value used as a manual entry id.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// NewImportID appends a random suffix so rows imported within the same
// millisecond stay distinct.
func NewImportID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return NewID(now) + suffix[:9]
}
