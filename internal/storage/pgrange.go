package storage

import (
	"fmt"
	"regexp"
	"strconv"
)

// pgRange scans a Postgres int4range column (read back as text, e.g.
// "[1,5)") into (lower, upper) bounds, matching the half-open convention
// locationRange writes.
type pgRange struct {
	lower, upper int
}

var rangePattern = regexp.MustCompile(`^[\[(](-?\d+),(-?\d+)[\])]$`)

func (r *pgRange) Scan(src interface{}) error {
	var text string
	switch v := src.(type) {
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("storage: cannot scan %T into pgRange", src)
	}

	m := rangePattern.FindStringSubmatch(text)
	if m == nil {
		return fmt.Errorf("storage: unrecognised int4range literal %q", text)
	}
	lower, err := strconv.Atoi(m[1])
	if err != nil {
		return fmt.Errorf("storage: bad int4range lower bound %q: %w", text, err)
	}
	upper, err := strconv.Atoi(m[2])
	if err != nil {
		return fmt.Errorf("storage: bad int4range upper bound %q: %w", text, err)
	}
	r.lower, r.upper = lower, upper
	return nil
}
