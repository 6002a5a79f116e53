package tape

import "testing"

func TestMachineForBias_Threshold(t *testing.T) {
	cases := []struct {
		bias float64
		want Machine
	}{
		{0.0, MachineAmpex},
		{0.5, MachineAmpex},
		{0.739, MachineAmpex},
		{0.74, MachineStuder},
		{0.8, MachineStuder},
		{1.0, MachineStuder},
	}

	for _, tc := range cases {
		if got := MachineForBias(tc.bias); got != tc.want {
			t.Errorf("bias %v: got %v, want %v", tc.bias, got, tc.want)
		}
	}
}

func TestDeriveParams_FourModes(t *testing.T) {
	cases := []struct {
		name    string
		machine Machine
		formula Formula
		wantA3  float64
	}{
		{"ampex gp9", MachineAmpex, FormulaGP9, 0.0033},
		{"ampex sm900", MachineAmpex, FormulaSM900, 0.0051},
		{"studer gp9", MachineStuder, FormulaGP9, 0.0047},
		{"studer sm900", MachineStuder, FormulaSM900, 0.0077},
	}

	for _, tc := range cases {
		p := deriveParams(config{machine: tc.machine, formula: tc.formula, inputGain: 1})
		if p.cubicA3 != tc.wantA3 {
			t.Errorf("%s: a3 got %v, want %v", tc.name, p.cubicA3, tc.wantA3)
		}
	}
}

func TestDeriveParams_FormulaScalesHysteresis(t *testing.T) {
	gp9 := deriveParams(config{machine: MachineAmpex, formula: FormulaGP9})
	sm900 := deriveParams(config{machine: MachineAmpex, formula: FormulaSM900})

	if gp9.saturationMagnetization != 350000 || gp9.outputScale != 146 {
		t.Fatalf("GP9 hysteresis pair: got (%v, %v)", gp9.saturationMagnetization, gp9.outputScale)
	}

	if sm900.saturationMagnetization != 320000 || sm900.outputScale != 160 {
		t.Fatalf("SM900 hysteresis pair: got (%v, %v)", sm900.saturationMagnetization, sm900.outputScale)
	}
}

func TestDeriveParams_MachineConstants(t *testing.T) {
	ampex := deriveParams(config{machine: MachineAmpex, formula: FormulaGP9})
	studer := deriveParams(config{machine: MachineStuder, formula: FormulaGP9})

	if ampex.dispersiveCorner != 10000 || studer.dispersiveCorner != 2800 {
		t.Fatalf("dispersive corners: ampex %v, studer %v", ampex.dispersiveCorner, studer.dispersiveCorner)
	}

	if ampex.azimuthMicros != 8 || studer.azimuthMicros != 12 {
		t.Fatalf("azimuth delays: ampex %v, studer %v", ampex.azimuthMicros, studer.azimuthMicros)
	}

	// The lower Studer bias frequency linearizes less, so it leans harder
	// on the hysteresis path.
	if studer.hysteresisBlend <= ampex.hysteresisBlend {
		t.Fatalf("blend ordering: studer %v should exceed ampex %v",
			studer.hysteresisBlend, ampex.hysteresisBlend)
	}
}

func TestDeriveParams_IsPure(t *testing.T) {
	c := config{machine: MachineStuder, formula: FormulaSM900, inputGain: 2}

	if deriveParams(c) != deriveParams(c) {
		t.Fatal("deriveParams is not deterministic")
	}
}

func TestMachineAndFormulaStrings(t *testing.T) {
	if MachineAmpex.String() == MachineStuder.String() {
		t.Fatal("machine names must differ")
	}

	if FormulaGP9.String() == FormulaSM900.String() {
		t.Fatal("formula names must differ")
	}

	if Machine(99).String() != "unknown machine" {
		t.Fatalf("unexpected name for invalid machine: %q", Machine(99).String())
	}
}
