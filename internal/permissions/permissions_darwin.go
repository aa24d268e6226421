//go:build darwin

package permissions

/*
#cgo darwin LDFLAGS: -framework CoreGraphics -framework ApplicationServices

#include <CoreGraphics/CoreGraphics.h>
#include <ApplicationServices/ApplicationServices.h>

static int screenRecordingPreflight(void) {
	return CGPreflightScreenCaptureAccess() ? 1 : 0;
}

static int accessibilityTrusted(void) {
	return AXIsProcessTrusted() ? 1 : 0;
}
*/
import "C"

func screenRecordingGranted() bool {
	return C.screenRecordingPreflight() == 1
}

func accessibilityGranted() bool {
	return C.accessibilityTrusted() == 1
}
