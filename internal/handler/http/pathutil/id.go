// Package pathutil parses path parameters and normalizes request paths for
// metric labels.
package pathutil

import (
	"errors"
	"strconv"
)

var ErrInvalidID = errors.New("invalid id")

// ParseID accepts a positive decimal ID from r.PathValue("id").
func ParseID(raw string) (int64, error) {
	if !isDigits(raw) {
		return 0, ErrInvalidID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
