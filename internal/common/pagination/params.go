package pagination

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// ErrInvalidLimit is returned for a ?limit= that is not a positive integer.
var ErrInvalidLimit = errors.New("invalid limit")

// ParseLimit reads ?limit= from r. An absent parameter yields def, which
// may be 0 to let the caller apply its own default. Values are capped at
// MaxLimit.
func (c Config) ParseLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return c.capped(def), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w %q: must be a positive integer", ErrInvalidLimit, raw)
	}
	return c.capped(n), nil
}

func (c Config) capped(n int) int {
	if c.MaxLimit > 0 && n > c.MaxLimit {
		return c.MaxLimit
	}
	return n
}
