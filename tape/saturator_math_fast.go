//go:build fastmath

package tape

import (
	"github.com/meko-christian/algo-approx"
)

// mathPow computes x^y for x > 0 using fast approximations.
// Uses the identity x^y = e^(y * ln(x)); the saturator only raises the
// envelope (floored at satEnvFloor) and the normalized level t to powers,
// so x is always strictly positive here.
func mathPow(x, y float64) float64 {
	return approx.FastExp(y * approx.FastLog(x))
}
