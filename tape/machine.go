package tape

// Machine selects the modeled transport and head block.
type Machine int

const (
	// MachineAmpex is the ATR-102 half-inch master deck: 432 kHz AC bias,
	// transparent low-distortion character.
	MachineAmpex Machine = iota

	// MachineStuder is the A820 multitrack: 153.6 kHz AC bias, warmer and
	// more compressed character.
	MachineStuder
)

// machineBiasThreshold splits the continuous bias-strength control: values
// below select Ampex, values at or above select Studer.
const machineBiasThreshold = 0.74

// MachineForBias maps a bias strength in [0, 1] to a machine. Out-of-range
// values are clamped first.
func MachineForBias(bias float64) Machine {
	if bias < machineBiasThreshold {
		return MachineAmpex
	}

	return MachineStuder
}

func (m Machine) String() string {
	switch m {
	case MachineAmpex:
		return "Ampex ATR-102"
	case MachineStuder:
		return "Studer A820"
	default:
		return "unknown machine"
	}
}

// Formula selects the tape stock loaded on the machine, orthogonal to the
// machine itself.
type Formula int

const (
	// FormulaGP9 is Quantegy GP9, the higher-coercivity mastering stock.
	FormulaGP9 Formula = iota

	// FormulaSM900 is BASF/EMTEC SM900, saturating earlier than GP9.
	FormulaSM900
)

func (f Formula) String() string {
	switch f {
	case FormulaGP9:
		return "GP9"
	case FormulaSM900:
		return "SM900"
	default:
		return "unknown formula"
	}
}
