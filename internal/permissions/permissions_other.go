//go:build !darwin

package permissions

// Non-darwin platforms have no preflight API for these grants; the capture
// and input calls themselves fail loudly if the OS refuses them.

func screenRecordingGranted() bool { return true }

func accessibilityGranted() bool { return true }
