package cpu

// cbTable is built entirely from the CB-prefixed opcode's regular 8x8
// layout: 0x00-0x3F are the rotate/shift/swap group (row = kind, column =
// register); 0x40-0xFF are BIT/RES/SET, each taking a 3-bit index and an
// 8-register column.

var shiftNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}

func init() {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			kind := shiftKind(row)
			r := regOrder[col]
			op := byte(row*8 + col)
			cycles := uint8(2)
			if r == regHLInd {
				cycles = 4
			}
			cbTable[op] = Instruction{
				Name: shiftNames[row] + " " + regName(r), Len: 2, Cycles: cycles,
				Exec: func(c *CPU) int {
					res, cy := shift8(kind, c.getReg8(r), c.flag(flagC))
					c.setReg8(r, res)
					c.setFlags(res == 0, false, false, cy)
					return 0
				},
			}
		}
	}

	for bit := 0; bit < 8; bit++ {
		for col := 0; col < 8; col++ {
			b := uint(bit)
			r := regOrder[col]

			bitOp := byte(0x40 + bit*8 + col)
			bitCycles := uint8(2)
			if r == regHLInd {
				bitCycles = 3
			}
			cbTable[bitOp] = Instruction{
				Name: "BIT", Len: 2, Cycles: bitCycles,
				Exec: func(c *CPU) int {
					v := c.getReg8(r)
					c.setFlags(v&(1<<b) == 0, false, true, c.flag(flagC))
					return 0
				},
			}

			resOp := byte(0x80 + bit*8 + col)
			resCycles := uint8(2)
			if r == regHLInd {
				resCycles = 4
			}
			cbTable[resOp] = Instruction{
				Name: "RES", Len: 2, Cycles: resCycles,
				Exec: func(c *CPU) int {
					c.setReg8(r, c.getReg8(r)&^(1<<b))
					return 0
				},
			}

			setOp := byte(0xC0 + bit*8 + col)
			setCycles := uint8(2)
			if r == regHLInd {
				setCycles = 4
			}
			cbTable[setOp] = Instruction{
				Name: "SET", Len: 2, Cycles: setCycles,
				Exec: func(c *CPU) int {
					c.setReg8(r, c.getReg8(r)|(1<<b))
					return 0
				},
			}
		}
	}
}
