package cart

import "testing"

func TestLoadCartridgeAcceptsROMOnly(t *testing.T) {
	rom := buildROM("TEST", 0x00, 0x00, 0x00, 32*1024)
	c, err := LoadCartridge(rom)
	if err != nil {
		t.Fatalf("unexpected error for MBC0 cartridge: %v", err)
	}
	if _, ok := c.(*ROMOnly); !ok {
		t.Fatalf("LoadCartridge returned %T, want *ROMOnly", c)
	}
}

func TestLoadCartridgeRejectsMBC1(t *testing.T) {
	rom := buildROM("TEST", 0x01, 0x01, 0x00, 64*1024)
	_, err := LoadCartridge(rom)
	if err == nil {
		t.Fatalf("expected UnsupportedCartridgeError for MBC1 cart type")
	}
	uerr, ok := err.(*UnsupportedCartridgeError)
	if !ok {
		t.Fatalf("error type = %T, want *UnsupportedCartridgeError", err)
	}
	if uerr.CartType != 0x01 {
		t.Fatalf("CartType = %#02x want 0x01", uerr.CartType)
	}
}

func TestLoadCartridgeRejectsMBC3AndMBC5(t *testing.T) {
	for _, ct := range []byte{0x0F, 0x10, 0x19, 0x1A} {
		rom := buildROM("TEST", ct, 0x01, 0x00, 64*1024)
		if _, err := LoadCartridge(rom); err == nil {
			t.Fatalf("expected error for cart type %#02x", ct)
		}
	}
}
