package tape

// config is the compared-by-value processor configuration. Coefficients are
// re-derived only when the whole value changes, so equality comparison
// replaces per-field dirty flags.
type config struct {
	machine   Machine
	formula   Formula
	inputGain float64
}

// params holds every constant derived from a config. Derivation is pure:
// same config, same params.
type params struct {
	// Hysteresis scaling per tape formula.
	saturationMagnetization float64
	outputScale             float64

	// Saturator tuning per machine/formula mode.
	cubicA3       float64
	cubicPower    float64
	inputBias     float64
	lowLevelScale float64

	// Orchestrator constants per machine.
	hysteresisBlend  float64
	dispersiveCorner float64
	azimuthMicros    float64
}

// Shared Jiles-Atherton material parameters, calibrated for 30 IPS
// operation. Saturation magnetization and output scale vary per formula;
// these do not.
const (
	jaWallDensity   = 22000.0
	jaCoercivity    = 27500.0
	jaReversibility = 0.98
	jaMeanField     = 1.6e-3
)

// deriveParams computes the full constant set for one configuration. Each of
// the four machine/formula modes carries its own tuned cubic coefficient;
// the remaining saturator constants follow the machine and the hysteresis
// scaling follows the formula.
func deriveParams(c config) params {
	var p params

	switch c.formula {
	case FormulaSM900:
		p.saturationMagnetization = 320000.0
		p.outputScale = 160.0
	default: // FormulaGP9
		p.saturationMagnetization = 350000.0
		p.outputScale = 146.0
	}

	switch c.machine {
	case MachineStuder:
		p.cubicPower = 0.45
		p.inputBias = 0.18
		p.lowLevelScale = 0.53
		p.hysteresisBlend = 0.013
		p.dispersiveCorner = 2800.0
		p.azimuthMicros = 12.0

		if c.formula == FormulaSM900 {
			p.cubicA3 = 0.0077
		} else {
			p.cubicA3 = 0.0047
		}
	default: // MachineAmpex
		p.cubicPower = 0.29
		p.inputBias = 0.075
		p.lowLevelScale = 0.79
		p.hysteresisBlend = 0.007
		p.dispersiveCorner = 10000.0
		p.azimuthMicros = 8.0

		if c.formula == FormulaSM900 {
			p.cubicA3 = 0.0051
		} else {
			p.cubicA3 = 0.0033
		}
	}

	return p
}
