package config

import (
	"cmp"
	"fmt"
	"log/slog"
)

// InRange checks lo <= v <= hi.
func InRange[T cmp.Ordered](v, lo, hi T) error {
	if lo > hi {
		return fmt.Errorf("empty range [%v, %v]", lo, hi)
	}
	if v < lo || v > hi {
		return fmt.Errorf("%v outside [%v, %v]", v, lo, hi)
	}
	return nil
}

// inRangeOr returns v when it lies in [lo, hi], otherwise it warns about key
// and returns def.
func inRangeOr[T cmp.Ordered](key string, v, lo, hi, def T) T {
	if err := InRange(v, lo, hi); err != nil {
		slog.Warn("invalid "+key+", using default",
			slog.Any("value", v),
			slog.Any("default", def),
			slog.String("error", err.Error()))
		return def
	}
	return v
}
