package charges

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const referencePrefix = "ps_"

// NewReference returns ps_<unix-ms>_<32 hex chars>. The suffix comes from a
// random v4 UUID, which reads crypto/rand.
func NewReference(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s%d_%s", referencePrefix, now.UnixMilli(), suffix)
}
