package validate

import (
	"errors"
	"fmt"
	"os"
)

// MiB is one mebibyte.
const MiB = 1024 * 1024

// Default size thresholds.
const (
	DefaultWarnBytes  int64 = 5 * MiB
	DefaultBlockBytes int64 = 10 * MiB
)

// Thresholds are the size limits for committed notebooks. Block must be
// greater than Warn.
type Thresholds struct {
	Warn  int64
	Block int64
}

// DefaultThresholds returns the 5 MiB / 10 MiB limits.
func DefaultThresholds() Thresholds {
	return Thresholds{Warn: DefaultWarnBytes, Block: DefaultBlockBytes}
}

// Validate checks that the thresholds are usable.
func (t Thresholds) Validate() error {
	if t.Warn <= 0 || t.Block <= 0 {
		return fmt.Errorf("size thresholds must be positive (warn=%d, block=%d)", t.Warn, t.Block)
	}
	if t.Block <= t.Warn {
		return fmt.Errorf("block threshold (%s) must be greater than warn threshold (%s)", formatMiB(t.Block), formatMiB(t.Warn))
	}
	return nil
}

// Size classifies a byte size: at or above Block is an error, at or above
// Warn a warning, anything smaller passes cleanly.
func Size(path string, size int64, t Thresholds) Result {
	r := newResult(path)
	switch {
	case size >= t.Block:
		r.addError(Issue{
			Code:       CodeSizeExceeded,
			Message:    fmt.Sprintf("Notebook size is %s (exceeds %s limit)", formatMiB(size), formatMiB(t.Block)),
			Suggestion: "Move data to external files, remove embedded datasets, or use data references",
		})
	case size >= t.Warn:
		r.addWarning(Issue{
			Code:       CodeSizeWarning,
			Message:    fmt.Sprintf("Notebook size is %s (warning threshold: %s)", formatMiB(size), formatMiB(t.Warn)),
			Suggestion: "Consider externalizing data to prevent repository bloat",
		})
	}
	return r.finish()
}

// FileSize stats path and applies Size.
func FileSize(path string, t Thresholds) Result {
	info, err := os.Stat(path)
	if err != nil {
		r := newResult(path)
		if errors.Is(err, os.ErrNotExist) {
			r.addError(Issue{
				Code:       CodeFileNotFound,
				Message:    fmt.Sprintf("Notebook not found: %s", path),
				Suggestion: "Check the file path",
			})
		} else {
			r.addError(readError(err))
		}
		return r.finish()
	}
	return Size(path, info.Size(), t)
}

func formatMiB(n int64) string {
	return fmt.Sprintf("%.1f MB", float64(n)/MiB)
}
