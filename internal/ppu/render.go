package ppu

// This file composes the per-scanline BG/window fetcher output in
// scanline.go with sprite rendering into the framebuffer the host reads
// through Framebuffer(). Sprite composition follows the original Rust
// source's left-most-X-wins, then lowest-OAM-index-wins priority rule
// (original_source/src/gpu.rs's sprite sort), generalized here to also
// honor the BG-over-OBJ attribute bit and 8x16 sprite mode.

// Sprite is one entry scanned out of OAM for a given scanline: X and Y are
// already adjusted to screen-space top-left coordinates (OAM's raw
// X-8/Y-16), ready to compare directly against a pixel column and line.
type Sprite struct {
	X, Y     int
	Tile     byte
	Attr     byte
	OAMIndex int
}

// scanOAMForLine returns, in OAM order, every sprite whose vertical extent
// covers ly, capped at the hardware's 10-sprites-per-scanline limit.
func (p *PPU) scanOAMForLine(ly int) []Sprite {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}
	var out []Sprite
	for i := 0; i < 40 && len(out) < 10; i++ {
		base := i * 4
		oamY := int(p.oam[base]) - 16
		oamX := int(p.oam[base+1]) - 8
		tile := p.oam[base+2]
		attr := p.oam[base+3]
		if ly < oamY || ly >= oamY+height {
			continue
		}
		out = append(out, Sprite{X: oamX, Y: oamY, Tile: tile, Attr: attr, OAMIndex: i})
	}
	return out
}

// ComposeSpriteLine overlays sprites onto a BG/window color-index row.
// bgci holds the pre-palette BG/window color indices (0..3) for priority
// comparisons; the result holds 0 where no opaque sprite pixel wins.
func ComposeSpriteLine(mem VRAMReader, sprites []Sprite, ly int, bgci [160]byte, use8x16 bool) [160]byte {
	out, _ := composeSpriteLineWithAttrs(mem, sprites, ly, bgci, use8x16)
	return out
}

// composeSpriteLineWithAttrs is ComposeSpriteLine plus the winning
// sprite's attribute byte per column, so callers can pick OBP0/OBP1
// without re-running the priority resolution and risking disagreement.
func composeSpriteLineWithAttrs(mem VRAMReader, sprites []Sprite, ly int, bgci [160]byte, use8x16 bool) (ci, attrs [160]byte) {
	for x := 0; x < 160; x++ {
		found := false
		bestX, bestIdx := 0, 0
		var bestCI, bestAttr byte
		for _, s := range sprites {
			if x < s.X || x >= s.X+8 {
				continue
			}
			row := ly - s.Y
			col := x - s.X
			pixCI := spritePixelColorIndex(mem, s, row, col, use8x16)
			if pixCI == 0 {
				continue
			}
			if !found || s.X < bestX || (s.X == bestX && s.OAMIndex < bestIdx) {
				found, bestX, bestIdx, bestCI, bestAttr = true, s.X, s.OAMIndex, pixCI, s.Attr
			}
		}
		if !found {
			continue
		}
		if bestAttr&(1<<7) != 0 && bgci[x] != 0 {
			continue
		}
		ci[x] = bestCI
		attrs[x] = bestAttr
	}
	return ci, attrs
}

func spritePixelColorIndex(mem VRAMReader, s Sprite, row, col int, use8x16 bool) byte {
	height := 8
	if use8x16 {
		height = 16
	}
	if s.Attr&(1<<6) != 0 { // Y flip
		row = height - 1 - row
	}
	if s.Attr&(1<<5) != 0 { // X flip
		col = 7 - col
	}
	tile := uint16(s.Tile)
	if use8x16 {
		tile &^= 0x01
		if row >= 8 {
			tile++
			row -= 8
		}
	}
	base := 0x8000 + tile*16 + uint16(row)*2
	lo := mem.Read(base)
	hi := mem.Read(base + 1)
	bit := 7 - byte(col)
	return ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
}

// applyPalette maps a 2-bit color index through a BGP/OBP-style palette
// register (2 bits per index, index 0 in the low bits) into a DMG shade.
func applyPalette(pal byte, ci byte) byte {
	return (pal >> (ci * 2)) & 0x03
}

// renderScanline fills framebuffer row ly by combining BG, window, and
// sprites, and is invoked once per line when mode 3 ends (HBlank entry).
func (p *PPU) renderScanline(ly int) {
	if p.lcdc&0x80 == 0 {
		return
	}
	var bgci [160]byte
	if p.lcdc&0x01 != 0 {
		mapBase := uint16(0x9800)
		if p.lcdc&0x08 != 0 {
			mapBase = 0x9C00
		}
		bgci = RenderBGScanlineUsingFetcher(p, mapBase, p.lcdc&0x10 != 0, p.scx, p.scy, byte(ly))
	}

	windowVisible := p.lcdc&0x01 != 0 && p.lcdc&0x20 != 0 && int(p.wy) <= ly && p.wx <= 166
	if windowVisible {
		p.winLineCounter++
	}
	if windowVisible {
		winMapBase := uint16(0x9800)
		if p.lcdc&0x40 != 0 {
			winMapBase = 0x9C00
		}
		wxStart := int(p.wx) - 7
		winRow := RenderWindowScanlineUsingFetcher(p, winMapBase, p.lcdc&0x10 != 0, wxStart, byte(p.winLineCounter))
		for x := wxStart; x < 160; x++ {
			if x < 0 {
				continue
			}
			bgci[x] = winRow[x]
		}
		p.lineRegsTable[ly] = LineRegs{WinLine: byte(p.winLineCounter)}
	} else {
		wl := p.winLineCounter
		if wl < 0 {
			wl = 0
		}
		p.lineRegsTable[ly] = LineRegs{WinLine: byte(wl)}
	}

	var row [160]byte
	for x := 0; x < 160; x++ {
		row[x] = applyPalette(p.bgp, bgci[x])
	}

	if p.lcdc&0x02 != 0 {
		sprites := p.scanOAMForLine(ly)
		sprCI, sprAttr := composeSpriteLineWithAttrs(p, sprites, ly, bgci, p.lcdc&0x04 != 0)
		for x := 0; x < 160; x++ {
			if sprCI[x] == 0 {
				continue
			}
			pal := p.obp0
			if sprAttr[x]&(1<<4) != 0 { // attribute bit4 selects OBP1 over OBP0
				pal = p.obp1
			}
			row[x] = applyPalette(pal, sprCI[x])
		}
	}

	p.framebuffer[ly] = row
}

// LineRegs reports the window-line counter latched for scanline ly, for
// tests and debug tooling that need to observe window activation timing.
type LineRegs struct {
	WinLine byte
}

func (p *PPU) LineRegs(ly int) LineRegs { return p.lineRegsTable[ly] }

// Framebuffer returns the most recently rendered frame as 144 rows of 160
// DMG shade indices (0=lightest .. 3=darkest).
func (p *PPU) Framebuffer() *[144][160]byte { return &p.framebuffer }
