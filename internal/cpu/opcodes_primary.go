package cpu

// This file builds primaryTable. Regular opcode groups (LD r,r'; the ALU
// grid; INC/DEC; 16-bit loads and arithmetic; PUSH/POP; RST; the
// conditional branch families) are constructed by loops over the shared
// register-field encodings in instruction.go; the remaining, irregular
// opcodes are assigned individually in init().

func regName(r reg8) string {
	switch r {
	case regB:
		return "B"
	case regC:
		return "C"
	case regD:
		return "D"
	case regE:
		return "E"
	case regH:
		return "H"
	case regL:
		return "L"
	case regHLInd:
		return "(HL)"
	default:
		return "A"
	}
}

func pairName(p reg16) string {
	switch p {
	case pairBC:
		return "BC"
	case pairDE:
		return "DE"
	case pairSP:
		return "SP"
	default:
		return "HL"
	}
}

func init() {
	buildLoadGrid()
	buildALUGrid()
	buildIncDec8()
	buildLoadImm8()
	build16BitGroup()
	buildPushPop()
	buildRST()
	buildConditionalBranches()
	buildMisc()
}

// buildLoadGrid fills 0x40-0x7F, the LD r,r' 8x8 grid (0x76 is HALT, not a
// load, and is overwritten by buildMisc).
func buildLoadGrid() {
	for dst := 0; dst < 8; dst++ {
		for src := 0; src < 8; src++ {
			d, s := regOrder[dst], regOrder[src]
			op := byte(0x40 + dst*8 + src)
			cycles := uint8(1)
			if d == regHLInd || s == regHLInd {
				cycles = 2
			}
			primaryTable[op] = Instruction{
				Name: "LD " + regName(d) + "," + regName(s), Len: 1, Cycles: cycles,
				Exec: func(c *CPU) int { c.setReg8(d, c.getReg8(s)); return 0 },
			}
		}
	}
}

// aluKind selects the operation performed by one row of the 0x80-0xBF grid.
type aluKind int

const (
	aluAdd aluKind = iota
	aluAdc
	aluSub
	aluSbc
	aluAnd
	aluXor
	aluOr
	aluCp
)

var aluNames = [8]string{"ADD", "ADC", "SUB", "SBC", "AND", "XOR", "OR", "CP"}

func (c *CPU) applyALU(kind aluKind, b byte) {
	var res byte
	var z, n, h, cy bool
	switch kind {
	case aluAdd:
		res, z, n, h, cy = add8(c.A, b)
	case aluAdc:
		res, z, n, h, cy = adc8(c.A, b, c.flag(flagC))
	case aluSub:
		res, z, n, h, cy = sub8(c.A, b)
	case aluSbc:
		res, z, n, h, cy = sbc8(c.A, b, c.flag(flagC))
	case aluAnd:
		res, z, n, h, cy = and8(c.A, b)
	case aluXor:
		res, z, n, h, cy = xor8(c.A, b)
	case aluOr:
		res, z, n, h, cy = or8(c.A, b)
	case aluCp:
		z, n, h, cy = cp8(c.A, b)
		res = c.A
	}
	c.setFlags(z, n, h, cy)
	if kind != aluCp {
		c.A = res
	}
}

// buildALUGrid fills 0x80-0xBF, ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,r.
func buildALUGrid() {
	for row := 0; row < 8; row++ {
		for src := 0; src < 8; src++ {
			kind := aluKind(row)
			s := regOrder[src]
			op := byte(0x80 + row*8 + src)
			cycles := uint8(1)
			if s == regHLInd {
				cycles = 2
			}
			primaryTable[op] = Instruction{
				Name: aluNames[row] + " A," + regName(s), Len: 1, Cycles: cycles,
				Exec: func(c *CPU) int { c.applyALU(kind, c.getReg8(s)); return 0 },
			}
		}
	}
}

// buildIncDec8 fills the INC r / DEC r opcodes at 0x04+i*8 / 0x05+i*8.
func buildIncDec8() {
	for i := 0; i < 8; i++ {
		r := regOrder[i]
		incOp := byte(0x04 + i*8)
		decOp := byte(0x05 + i*8)
		cycles := uint8(1)
		if r == regHLInd {
			cycles = 3
		}
		primaryTable[incOp] = Instruction{
			Name: "INC " + regName(r), Len: 1, Cycles: cycles,
			Exec: func(c *CPU) int {
				res, z, h := inc8(c.getReg8(r))
				c.setReg8(r, res)
				c.setFlags(z, false, h, c.flag(flagC))
				return 0
			},
		}
		primaryTable[decOp] = Instruction{
			Name: "DEC " + regName(r), Len: 1, Cycles: cycles,
			Exec: func(c *CPU) int {
				res, z, h := dec8(c.getReg8(r))
				c.setReg8(r, res)
				c.setFlags(z, true, h, c.flag(flagC))
				return 0
			},
		}
	}
}

// buildLoadImm8 fills LD r,d8 at 0x06+i*8.
func buildLoadImm8() {
	for i := 0; i < 8; i++ {
		r := regOrder[i]
		op := byte(0x06 + i*8)
		cycles := uint8(2)
		if r == regHLInd {
			cycles = 3
		}
		primaryTable[op] = Instruction{
			Name: "LD " + regName(r) + ",d8", Len: 2, Cycles: cycles,
			Exec: func(c *CPU) int { c.setReg8(r, c.fetch8()); return 0 },
		}
	}
}

// build16BitGroup fills LD rr,d16 / INC rr / ADD HL,rr / DEC rr at the four
// row bases 0x00/0x10/0x20/0x30.
func build16BitGroup() {
	for i := 0; i < 4; i++ {
		p := pairOrder[i]
		base := byte(i * 0x10)
		name := pairName(p)

		primaryTable[base+0x01] = Instruction{
			Name: "LD " + name + ",d16", Len: 3, Cycles: 3,
			Exec: func(c *CPU) int { c.setReg16(p, c.fetch16()); return 0 },
		}
		primaryTable[base+0x03] = Instruction{
			Name: "INC " + name, Len: 1, Cycles: 2,
			Exec: func(c *CPU) int { c.setReg16(p, c.getReg16(p)+1); return 0 },
		}
		primaryTable[base+0x09] = Instruction{
			Name: "ADD HL," + name, Len: 1, Cycles: 2,
			Exec: func(c *CPU) int {
				res, h, cy := addHL16(c.HL(), c.getReg16(p))
				c.SetHL(res)
				c.setFlags(c.flag(flagZ), false, h, cy)
				return 0
			},
		}
		primaryTable[base+0x0B] = Instruction{
			Name: "DEC " + name, Len: 1, Cycles: 2,
			Exec: func(c *CPU) int { c.setReg16(p, c.getReg16(p)-1); return 0 },
		}
	}
}

// buildPushPop fills PUSH/POP rr at 0xC1/0xC5 + i*0x10, in BC/DE/HL/AF order.
func buildPushPop() {
	names := [4]string{"BC", "DE", "HL", "AF"}
	getters := [4]func(c *CPU) uint16{
		func(c *CPU) uint16 { return c.BC() },
		func(c *CPU) uint16 { return c.DE() },
		func(c *CPU) uint16 { return c.HL() },
		func(c *CPU) uint16 { return c.AF() },
	}
	setters := [4]func(c *CPU, v uint16){
		func(c *CPU, v uint16) { c.SetBC(v) },
		func(c *CPU, v uint16) { c.SetDE(v) },
		func(c *CPU, v uint16) { c.SetHL(v) },
		func(c *CPU, v uint16) { c.SetAF(v) },
	}
	for i := 0; i < 4; i++ {
		name, get, set := names[i], getters[i], setters[i]
		popOp := byte(0xC1 + i*0x10)
		pushOp := byte(0xC5 + i*0x10)
		primaryTable[popOp] = Instruction{
			Name: "POP " + name, Len: 1, Cycles: 3,
			Exec: func(c *CPU) int { set(c, c.pop16()); return 0 },
		}
		primaryTable[pushOp] = Instruction{
			Name: "PUSH " + name, Len: 1, Cycles: 4,
			Exec: func(c *CPU) int { c.push16(get(c)); return 0 },
		}
	}
}

// buildRST fills RST 00H..38H at 0xC7+i*8.
func buildRST() {
	for i := 0; i < 8; i++ {
		target := uint16(i * 8)
		op := byte(0xC7 + i*8)
		primaryTable[op] = Instruction{
			Name: "RST", Len: 1, Cycles: 4,
			Exec: func(c *CPU) int { c.push16(c.PC); c.PC = target; return 0 },
		}
	}
}

// condTrue evaluates the cc field encoding shared by JR/JP/CALL/RET: 0:NZ 1:Z 2:NC 3:C.
func (c *CPU) condTrue(idx int) bool {
	switch idx {
	case 0:
		return !c.flag(flagZ)
	case 1:
		return c.flag(flagZ)
	case 2:
		return !c.flag(flagC)
	default:
		return c.flag(flagC)
	}
}

var condNames = [4]string{"NZ", "Z", "NC", "C"}

// buildConditionalBranches fills JR cc,e8 / JP cc,a16 / CALL cc,a16 / RET cc.
func buildConditionalBranches() {
	for i := 0; i < 4; i++ {
		idx := i
		name := condNames[i]

		jrOp := byte(0x20 + i*8)
		primaryTable[jrOp] = Instruction{
			Name: "JR " + name + ",e8", Len: 2, Cycles: 2,
			Exec: func(c *CPU) int {
				e := int8(c.fetch8())
				if c.condTrue(idx) {
					c.PC = uint16(int32(c.PC) + int32(e))
					return 1
				}
				return 0
			},
		}

		jpOp := byte(0xC2 + i*8)
		primaryTable[jpOp] = Instruction{
			Name: "JP " + name + ",a16", Len: 3, Cycles: 3,
			Exec: func(c *CPU) int {
				addr := c.fetch16()
				if c.condTrue(idx) {
					c.PC = addr
					return 1
				}
				return 0
			},
		}

		callOp := byte(0xC4 + i*8)
		primaryTable[callOp] = Instruction{
			Name: "CALL " + name + ",a16", Len: 3, Cycles: 3,
			Exec: func(c *CPU) int {
				addr := c.fetch16()
				if c.condTrue(idx) {
					c.push16(c.PC)
					c.PC = addr
					return 3
				}
				return 0
			},
		}

		retOp := byte(0xC0 + i*8)
		primaryTable[retOp] = Instruction{
			Name: "RET " + name, Len: 1, Cycles: 2,
			Exec: func(c *CPU) int {
				if c.condTrue(idx) {
					c.PC = c.pop16()
					return 3
				}
				return 0
			},
		}
	}
}

// buildMisc assigns every opcode not covered by a regular group: control,
// rotates-on-A, flag ops, the unconditional branch family, the 16-bit
// special loads, and the illegal-opcode list.
func buildMisc() {
	primaryTable[0x00] = Instruction{Name: "NOP", Len: 1, Cycles: 1, Exec: func(c *CPU) int { return 0 }}

	primaryTable[0x10] = Instruction{Name: "STOP", Len: 2, Cycles: 1, Exec: func(c *CPU) int {
		c.stopped = true
		return 0
	}}

	primaryTable[0x76] = Instruction{Name: "HALT", Len: 1, Cycles: 1, Exec: func(c *CPU) int {
		c.halted = true
		return 0
	}}

	primaryTable[0xF3] = Instruction{Name: "DI", Len: 1, Cycles: 1, Exec: func(c *CPU) int {
		c.IME = false
		c.eiPending = false
		return 0
	}}
	primaryTable[0xFB] = Instruction{Name: "EI", Len: 1, Cycles: 1, Exec: func(c *CPU) int {
		c.eiPending = true
		return 0
	}}

	primaryTable[0x07] = Instruction{Name: "RLCA", Len: 1, Cycles: 1, Exec: func(c *CPU) int {
		res, cy := shift8(shRLC, c.A, false)
		c.A = res
		c.setFlags(false, false, false, cy)
		return 0
	}}
	primaryTable[0x0F] = Instruction{Name: "RRCA", Len: 1, Cycles: 1, Exec: func(c *CPU) int {
		res, cy := shift8(shRRC, c.A, false)
		c.A = res
		c.setFlags(false, false, false, cy)
		return 0
	}}
	primaryTable[0x17] = Instruction{Name: "RLA", Len: 1, Cycles: 1, Exec: func(c *CPU) int {
		res, cy := shift8(shRL, c.A, c.flag(flagC))
		c.A = res
		c.setFlags(false, false, false, cy)
		return 0
	}}
	primaryTable[0x1F] = Instruction{Name: "RRA", Len: 1, Cycles: 1, Exec: func(c *CPU) int {
		res, cy := shift8(shRR, c.A, c.flag(flagC))
		c.A = res
		c.setFlags(false, false, false, cy)
		return 0
	}}

	primaryTable[0x27] = Instruction{Name: "DAA", Len: 1, Cycles: 1, Exec: func(c *CPU) int {
		res, cy := daa(c.A, c.flag(flagN), c.flag(flagH), c.flag(flagC))
		c.A = res
		c.setFlags(res == 0, c.flag(flagN), false, cy)
		return 0
	}}
	primaryTable[0x2F] = Instruction{Name: "CPL", Len: 1, Cycles: 1, Exec: func(c *CPU) int {
		c.A = ^c.A
		c.setFlags(c.flag(flagZ), true, true, c.flag(flagC))
		return 0
	}}
	primaryTable[0x37] = Instruction{Name: "SCF", Len: 1, Cycles: 1, Exec: func(c *CPU) int {
		c.setFlags(c.flag(flagZ), false, false, true)
		return 0
	}}
	primaryTable[0x3F] = Instruction{Name: "CCF", Len: 1, Cycles: 1, Exec: func(c *CPU) int {
		c.setFlags(c.flag(flagZ), false, false, !c.flag(flagC))
		return 0
	}}

	primaryTable[0x08] = Instruction{Name: "LD (a16),SP", Len: 3, Cycles: 5, Exec: func(c *CPU) int {
		addr := c.fetch16()
		c.writeWord(addr, c.SP)
		return 0
	}}

	primaryTable[0xE0] = Instruction{Name: "LDH (a8),A", Len: 2, Cycles: 3, Exec: func(c *CPU) int {
		c.write8(0xFF00+uint16(c.fetch8()), c.A)
		return 0
	}}
	primaryTable[0xF0] = Instruction{Name: "LDH A,(a8)", Len: 2, Cycles: 3, Exec: func(c *CPU) int {
		c.A = c.read8(0xFF00 + uint16(c.fetch8()))
		return 0
	}}
	primaryTable[0xE2] = Instruction{Name: "LD (C),A", Len: 1, Cycles: 2, Exec: func(c *CPU) int {
		c.write8(0xFF00+uint16(c.C), c.A)
		return 0
	}}
	primaryTable[0xF2] = Instruction{Name: "LD A,(C)", Len: 1, Cycles: 2, Exec: func(c *CPU) int {
		c.A = c.read8(0xFF00 + uint16(c.C))
		return 0
	}}
	primaryTable[0xEA] = Instruction{Name: "LD (a16),A", Len: 3, Cycles: 4, Exec: func(c *CPU) int {
		c.write8(c.fetch16(), c.A)
		return 0
	}}
	primaryTable[0xFA] = Instruction{Name: "LD A,(a16)", Len: 3, Cycles: 4, Exec: func(c *CPU) int {
		c.A = c.read8(c.fetch16())
		return 0
	}}

	primaryTable[0x02] = Instruction{Name: "LD (BC),A", Len: 1, Cycles: 2, Exec: func(c *CPU) int {
		c.write8(c.BC(), c.A)
		return 0
	}}
	primaryTable[0x12] = Instruction{Name: "LD (DE),A", Len: 1, Cycles: 2, Exec: func(c *CPU) int {
		c.write8(c.DE(), c.A)
		return 0
	}}
	primaryTable[0x0A] = Instruction{Name: "LD A,(BC)", Len: 1, Cycles: 2, Exec: func(c *CPU) int {
		c.A = c.read8(c.BC())
		return 0
	}}
	primaryTable[0x1A] = Instruction{Name: "LD A,(DE)", Len: 1, Cycles: 2, Exec: func(c *CPU) int {
		c.A = c.read8(c.DE())
		return 0
	}}
	primaryTable[0x22] = Instruction{Name: "LD (HL+),A", Len: 1, Cycles: 2, Exec: func(c *CPU) int {
		c.write8(c.HL(), c.A)
		c.SetHL(c.HL() + 1)
		return 0
	}}
	primaryTable[0x2A] = Instruction{Name: "LD A,(HL+)", Len: 1, Cycles: 2, Exec: func(c *CPU) int {
		c.A = c.read8(c.HL())
		c.SetHL(c.HL() + 1)
		return 0
	}}
	primaryTable[0x32] = Instruction{Name: "LD (HL-),A", Len: 1, Cycles: 2, Exec: func(c *CPU) int {
		c.write8(c.HL(), c.A)
		c.SetHL(c.HL() - 1)
		return 0
	}}
	primaryTable[0x3A] = Instruction{Name: "LD A,(HL-)", Len: 1, Cycles: 2, Exec: func(c *CPU) int {
		c.A = c.read8(c.HL())
		c.SetHL(c.HL() - 1)
		return 0
	}}

	primaryTable[0xF9] = Instruction{Name: "LD SP,HL", Len: 1, Cycles: 2, Exec: func(c *CPU) int {
		c.SP = c.HL()
		return 0
	}}
	primaryTable[0xE8] = Instruction{Name: "ADD SP,e8", Len: 2, Cycles: 4, Exec: func(c *CPU) int {
		e := int8(c.fetch8())
		res, h, cy := addSPSigned(c.SP, e)
		c.SP = res
		c.setFlags(false, false, h, cy)
		return 0
	}}
	primaryTable[0xF8] = Instruction{Name: "LD HL,SP+e8", Len: 2, Cycles: 3, Exec: func(c *CPU) int {
		e := int8(c.fetch8())
		res, h, cy := addSPSigned(c.SP, e)
		c.SetHL(res)
		c.setFlags(false, false, h, cy)
		return 0
	}}

	primaryTable[0xC3] = Instruction{Name: "JP a16", Len: 3, Cycles: 4, Exec: func(c *CPU) int {
		c.PC = c.fetch16()
		return 0
	}}
	primaryTable[0xE9] = Instruction{Name: "JP HL", Len: 1, Cycles: 1, Exec: func(c *CPU) int {
		c.PC = c.HL()
		return 0
	}}
	primaryTable[0x18] = Instruction{Name: "JR e8", Len: 2, Cycles: 3, Exec: func(c *CPU) int {
		e := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(e))
		return 0
	}}
	primaryTable[0xCD] = Instruction{Name: "CALL a16", Len: 3, Cycles: 6, Exec: func(c *CPU) int {
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 0
	}}
	primaryTable[0xC9] = Instruction{Name: "RET", Len: 1, Cycles: 4, Exec: func(c *CPU) int {
		c.PC = c.pop16()
		return 0
	}}
	primaryTable[0xD9] = Instruction{Name: "RETI", Len: 1, Cycles: 4, Exec: func(c *CPU) int {
		c.PC = c.pop16()
		c.IME = true
		c.eiPending = false
		return 0
	}}

	for _, op := range []byte{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		primaryTable[op] = Instruction{Name: "ILLEGAL"}
	}
}
