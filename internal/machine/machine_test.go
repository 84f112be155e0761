package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrewarrow/gbcore/internal/cart"
)

func buildROM(title string, cartType byte, romSize int) []byte {
	rom := make([]byte, romSize)
	tbytes := []byte(title)
	if len(tbytes) > 16 {
		tbytes = tbytes[:16]
	}
	copy(rom[0x0134:0x0144], tbytes)
	rom[0x0144], rom[0x0145] = '0', '1'
	rom[0x0147] = cartType
	return rom
}

func TestLoadCartridgeRejectsBankedROM(t *testing.T) {
	m := New(Config{})
	rom := buildROM("BANKED", 0x01, 64*1024)
	err := m.LoadCartridge(rom)
	assert.Error(t, err)
	_, ok := err.(*cart.UnsupportedCartridgeError)
	assert.True(t, ok, "expected *cart.UnsupportedCartridgeError, got %T", err)
}

func TestStepFrameAdvancesWithoutCrashingOnBlankROM(t *testing.T) {
	m := New(Config{})
	rom := buildROM("BLANK", 0x00, 32*1024)
	assert.NoError(t, m.LoadCartridge(rom))

	m.StepFrame()
	fb := m.Framebuffer()
	assert.Len(t, fb, 160*144*4)
}

func TestSetButtonsDoesNotPanicBeforeCartridgeLoaded(t *testing.T) {
	m := New(Config{})
	assert.NotPanics(t, func() {
		m.SetButtons(Buttons{A: true})
		m.StepFrame()
	})
}
