// Package machine wires the CPU, Bus, and PPU into a frame-stepping
// engine. It replaces the teacher's internal/emu.Machine stub (which,
// before this pass, only drew a test-pattern gradient to prove the
// pipe worked) with the real fetch/decode/execute + rendering loop.
package machine

import (
	"log"

	"github.com/andrewarrow/gbcore/internal/bus"
	"github.com/andrewarrow/gbcore/internal/cart"
	"github.com/andrewarrow/gbcore/internal/cpu"
	"github.com/andrewarrow/gbcore/internal/debugger"
)

// traceHook logs every instruction's register state via the standard
// logger, for -debug mode. Grounded on the deleted
// cmd/cpurunner's -trace flag, which did the same kind of per-step
// logging inline rather than through a hook.
type traceHook struct{}

func (traceHook) BeforeStep(s debugger.Snapshot) bool {
	log.Printf("PC=%04X SP=%04X A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X IME=%t",
		s.PC, s.SP, s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L, s.IME)
	return false
}

// Buttons is the joypad state for a single frame.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

func (b Buttons) mask() byte {
	var m byte
	if b.Right {
		m |= bus.JoypRight
	}
	if b.Left {
		m |= bus.JoypLeft
	}
	if b.Up {
		m |= bus.JoypUp
	}
	if b.Down {
		m |= bus.JoypDown
	}
	if b.A {
		m |= bus.JoypA
	}
	if b.B {
		m |= bus.JoypB
	}
	if b.Select {
		m |= bus.JoypSelectBtn
	}
	if b.Start {
		m |= bus.JoypStart
	}
	return m
}

// dotsPerFrame is the DMG's fixed 154 lines * 456 dots/line frame length.
const dotsPerFrame = 154 * 456

// Config controls optional machine behavior.
type Config struct {
	Debug bool // consult a debugger.Hook (the default traceHook logs every step) before each CPU instruction
}

// Machine owns a CPU, Bus, and cartridge and steps them together one
// frame at a time.
type Machine struct {
	cfg  Config
	bus  *bus.Bus
	cpu  *cpu.CPU
	hook debugger.Hook
	dots int // dots rendered so far in the current frame
}

// New constructs a Machine with no cartridge loaded; LoadCartridge must
// be called before StepFrame produces anything meaningful.
func New(cfg Config) *Machine {
	m := &Machine{cfg: cfg, hook: debugger.NoOp{}}
	if cfg.Debug {
		m.hook = traceHook{}
	}
	return m
}

// SetDebugHook installs the hook StepFrame calls before every CPU
// instruction when Config.Debug is set; with Debug unset it is never
// called. Passing nil restores the no-op default.
func (m *Machine) SetDebugHook(h debugger.Hook) {
	if h == nil {
		h = debugger.NoOp{}
	}
	m.hook = h
}

// LoadCartridge parses rom's header and wires a fresh Bus/CPU around it.
// It returns *cart.UnsupportedCartridgeError for any banked cartridge
// type; only MBC0 (ROM-only) images can be run.
func (m *Machine) LoadCartridge(rom []byte) error {
	c, err := cart.LoadCartridge(rom)
	if err != nil {
		return err
	}
	m.bus = bus.NewWithCartridge(c)
	m.cpu = cpu.New()
	m.dots = 0
	return nil
}

func (m *Machine) snapshot() debugger.Snapshot {
	return debugger.Snapshot{
		PC: m.cpu.PC, SP: m.cpu.SP,
		A: m.cpu.A, F: m.cpu.F,
		B: m.cpu.B, C: m.cpu.C,
		D: m.cpu.D, E: m.cpu.E,
		H: m.cpu.H, L: m.cpu.L,
		IME: m.cpu.IME,
	}
}

// SetButtons records which joypad buttons are pressed for subsequent
// frames, until the next call.
func (m *Machine) SetButtons(b Buttons) {
	if m.bus == nil {
		return
	}
	m.bus.SetJoypadState(b.mask())
}

// StepFrame runs the CPU and PPU forward by exactly one video frame
// (70224 dots at the DMG's native clock).
func (m *Machine) StepFrame() {
	if m.bus == nil || m.cpu == nil {
		return
	}
	for m.dots < dotsPerFrame {
		if m.cfg.Debug && m.hook.BeforeStep(m.snapshot()) {
			return
		}
		cycles, err := m.cpu.Step(m.bus)
		if err != nil {
			// An illegal opcode is fatal: abort with the PC and opcode.
			log.Fatalf("machine: %v", err)
		}
		m.bus.Tick(cycles)
		m.dots += cycles * 4
	}
	m.dots -= dotsPerFrame
}

// Framebuffer returns the most recently rendered frame as packed RGBA
// bytes (160x144x4), using the 4-shade DMG grayscale palette.
func (m *Machine) Framebuffer() []byte {
	out := make([]byte, 160*144*4)
	if m.bus == nil {
		return out
	}
	fb := m.bus.PPU().Framebuffer()
	for y := 0; y < 144; y++ {
		for x := 0; x < 160; x++ {
			r, g, b := shade(fb[y][x])
			i := (y*160 + x) * 4
			out[i+0] = r
			out[i+1] = g
			out[i+2] = b
			out[i+3] = 0xFF
		}
	}
	return out
}

// dmg color indices (0=lightest..3=darkest) mapped to the grayscale
// palette: white, light gray, dark gray, black.
func shade(ci byte) (r, g, b byte) {
	switch ci {
	case 0:
		return 0xFF, 0xFF, 0xFF
	case 1:
		return 0xC0, 0xC0, 0xC0
	case 2:
		return 0x60, 0x60, 0x60
	default:
		return 0x00, 0x00, 0x00
	}
}
