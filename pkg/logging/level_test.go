package logging

import "testing"

func TestVerbosityRoundTrips(t *testing.T) {
	SetVerbosity(2)
	defer SetVerbosity(0)
	if Verbosity() != 2 {
		t.Fatalf("expected verbosity 2, got %d", Verbosity())
	}
}

func TestAreColorsEnabledReflectsInitColors(t *testing.T) {
	InitColors(false)
	if AreColorsEnabled() {
		t.Fatalf("expected colors disabled after InitColors(false)")
	}
	InitColors(true)
}
