package permissions

import "testing"

func TestEnvOverride_Granted(t *testing.T) {
	t.Setenv("PAGEGRAB_SCREEN_RECORDING", "granted")
	p := ScreenRecording()
	if !p.Granted {
		t.Fatal("expected granted via env override")
	}
}

func TestEnvOverride_Denied(t *testing.T) {
	t.Setenv("PAGEGRAB_ACCESSIBILITY", "denied")
	p := Accessibility()
	if p.Granted {
		t.Fatal("expected denied via env override")
	}
	if p.Guidance == "" {
		t.Fatal("denied probe must carry remediation guidance")
	}
}

func TestEnvOverride_UnknownValueFallsThrough(t *testing.T) {
	t.Setenv("PAGEGRAB_SCREEN_RECORDING", "maybe")
	// Unknown values ignore the override and consult the platform probe;
	// on non-darwin that is always granted.
	p := ScreenRecording()
	if p.Guidance == "" {
		t.Fatal("probe must always carry guidance")
	}
}
