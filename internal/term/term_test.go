package term

import (
	"testing"

	"github.com/backmassage/fixbatch/internal/config"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })

	Configure(config.ColorAlways)
	if !Enabled() || Red == "" {
		t.Error("ColorAlways should enable colors")
	}

	Configure(config.ColorNever)
	if Enabled() || Red != "" || NC != "" {
		t.Error("ColorNever should clear colors")
	}
}

func TestConfigure_AutoHonoursNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	Configure(config.ColorAuto)
	if Enabled() {
		t.Error("NO_COLOR should disable automatic colors")
	}
}

func TestIsTerminal_Nil(t *testing.T) {
	if IsTerminal(nil) {
		t.Error("IsTerminal(nil) = true")
	}
}

func TestConfigure_AutoHonoursDumbTerminal(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "DUMB")
	Configure(config.ColorAuto)
	if Enabled() || Blue != "" {
		t.Error("TERM=dumb should disable automatic colors")
	}
}
