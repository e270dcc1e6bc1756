package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderNumber generates a human-readable unique order reference, e.g.
// ZS-20260901-1A2B3C4D. The date part keeps references sortable for support
// staff; the uuid part guarantees uniqueness.
func NewOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("ZS-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
