package cart

import "fmt"

// Cartridge is the minimal interface the Bus needs to address ROM
// (0x0000-0x7FFF) and external RAM (0xA000-0xBFFF).
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// UnsupportedCartridgeError is returned by LoadCartridge for any header
// cartridge type beyond MBC0 (ROM-only): bank switching is out of scope,
// and there is no safe way to run a banked title without it, so loading
// fails predictably instead of misreading banked ROM as the fixed bank.
type UnsupportedCartridgeError struct {
	CartType byte
	Name     string
}

func (e *UnsupportedCartridgeError) Error() string {
	return fmt.Sprintf("unsupported cartridge type 0x%02X (%s): only MBC0 (ROM-only) cartridges are supported", e.CartType, e.Name)
}

// LoadCartridge parses the ROM header and constructs a Cartridge, rejecting
// anything that isn't MBC0. Unlike NewCartridge it never silently falls
// back to ROM-only for a banked cart type.
func LoadCartridge(rom []byte) (Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return NewROMOnly(rom), nil
	}
	if h.CartType != 0x00 {
		return nil, &UnsupportedCartridgeError{CartType: h.CartType, Name: h.CartTypeStr}
	}
	return NewROMOnly(rom), nil
}

// NewCartridge constructs a ROM-only cartridge regardless of header
// content, for callers (tests, tools) that only ever hand it MBC0 images
// or raw byte slices with no real header.
func NewCartridge(rom []byte) Cartridge {
	return NewROMOnly(rom)
}
