// Package permissions answers, once at startup, whether the OS capabilities
// the run needs are currently granted.
//
// The result is a plain boolean precondition: the core never requests
// permissions or waits on them. Environment overrides
// (PAGEGRAB_SCREEN_RECORDING, PAGEGRAB_ACCESSIBILITY) exist so tests and CI
// can force either answer without touching OS state.
package permissions

import (
	"os"
	"strings"
)

// Probe is the result of a one-shot permission query.
type Probe struct {
	Granted  bool
	Guidance string // where the operator grants the permission, shown on failure
}

const (
	screenGuidance = "grant Screen Recording in System Settings > Privacy & Security > Screen Recording"
	inputGuidance  = "grant Accessibility in System Settings > Privacy & Security > Accessibility"
)

// ScreenRecording reports whether screen pixels can be captured.
func ScreenRecording() Probe {
	if p, ok := envOverride("PAGEGRAB_SCREEN_RECORDING", screenGuidance); ok {
		return p
	}
	return Probe{Granted: screenRecordingGranted(), Guidance: screenGuidance}
}

// Accessibility reports whether input events can be synthesized.
func Accessibility() Probe {
	if p, ok := envOverride("PAGEGRAB_ACCESSIBILITY", inputGuidance); ok {
		return p
	}
	return Probe{Granted: accessibilityGranted(), Guidance: inputGuidance}
}

func envOverride(key, guidance string) (Probe, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return Probe{}, false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "granted", "allow", "yes", "true", "1":
		return Probe{Granted: true, Guidance: guidance}, true
	case "denied", "no", "false", "0":
		return Probe{Granted: false, Guidance: guidance}, true
	default:
		return Probe{}, false
	}
}
