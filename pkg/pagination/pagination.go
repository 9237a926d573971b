// Package pagination implements keyset cursors over (created_at, id).
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

var errMalformedCursor = errors.New("malformed cursor")

// Cursor identifies the last row of the page already served.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps limit into [1, MaxLimit], defaulting non-positive values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Page trims rows fetched with limit+1 down to limit. When a row was cut, the
// cursor for the last kept row is returned so the caller can continue.
func Page[T any](rows []T, limit int, key func(T) Cursor) ([]T, string) {
	if len(rows) <= limit || limit <= 0 {
		return rows, ""
	}
	rows = rows[:limit]
	return rows, EncodeCursor(key(rows[limit-1]))
}

// EncodeCursor renders the cursor as url-safe base64 of "<unix-nanos>.<id>".
func EncodeCursor(c Cursor) string {
	raw := strconv.FormatInt(c.CreatedAt.UnixNano(), 10) + "." + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseCursor decodes an EncodeCursor value; blank input means first page.
func ParseCursor(value string) (*Cursor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedCursor, err)
	}
	nanos, id, ok := strings.Cut(string(raw), ".")
	if !ok {
		return nil, errMalformedCursor
	}
	ts, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp: %v", errMalformedCursor, err)
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %v", errMalformedCursor, err)
	}
	return &Cursor{CreatedAt: time.Unix(0, ts).UTC(), ID: parsedID}, nil
}
