// Package projection fits a Gaussian random projection on one batch and
// replays the identical transform across every batch, so the whole time
// series shares a single embedding space.
package projection

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimension indicates a projection target dimension that is
// nonsensical after clamping.
var ErrInvalidDimension = errors.New("invalid projection target dimension")

// MinDimension returns the minimum target dimension that keeps pairwise
// distance distortion within eps for n points, per the
// Johnson–Lindenstrauss bound:
//
//	floor(4·ln n / (eps²/2 − eps³/3))
//
// It is a pure function of (n, eps) and non-increasing in eps.
func MinDimension(n int, eps float64) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("%w: sample count %d", ErrInvalidDimension, n)
	}
	if eps <= 0 || eps >= 1 {
		return 0, fmt.Errorf("%w: error tolerance %v not in (0, 1)", ErrInvalidDimension, eps)
	}

	denom := eps*eps/2 - eps*eps*eps/3
	return int(4 * math.Log(float64(n)) / denom), nil
}
