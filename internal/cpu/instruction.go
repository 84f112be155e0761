package cpu

// Instruction is one entry of the primary or CB-prefixed dispatch table.
// Exec performs the operation and returns any cycles beyond Cycles that a
// taken conditional branch consumes (0 for everything else). Len is the
// total instruction length in bytes, used to advance PC when Exec itself
// left PC unchanged (i.e. the instruction wasn't a taken jump/call/return).
type Instruction struct {
	Name   string
	Len    uint8
	Cycles uint8
	Exec   func(c *CPU) int
}

// primaryTable and cbTable are built by the init() functions in
// opcodes_primary.go and opcodes_cb.go. An Exec of nil marks an opcode
// with no defined behavior on real hardware (Step reports IllegalOpcodeError).
var primaryTable [256]Instruction
var cbTable [256]Instruction

// regOrder is the standard LR35902 3-bit register field encoding shared by
// the primary LD/ALU/INC/DEC grids and the CB-prefixed table's low bits.
var regOrder = [8]reg8{regB, regC, regD, regE, regH, regL, regHLInd, regA}

// pairOrder is the rr field encoding used by LD rr,d16 / INC rr / DEC rr /
// ADD HL,rr.
var pairOrder = [4]reg16{pairBC, pairDE, pairHL, pairSP}
