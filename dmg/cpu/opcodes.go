package cpu

import "fmt"

// opcodes is the unprefixed instruction table, every byte value has an entry.
var opcodes = buildOpcodes()

var (
	conditionNames = [4]string{"NZ", "Z", "NC", "C"}
	pairNames      = [4]string{"BC", "DE", "HL", "SP"}
	stackPairNames = [4]string{"BC", "DE", "HL", "AF"}
)

// aluOps are the A,r operations in opcode order (0x80-0xBF, and 0xC6-0xFE for immediates).
var aluOps = [8]struct {
	name string
	fn   func(*CPU, uint8)
}{
	{"ADD A,", func(c *CPU, v uint8) { c.add(v, 0) }},
	{"ADC A,", (*CPU).adc},
	{"SUB ", (*CPU).sub},
	{"SBC A,", (*CPU).sbc},
	{"AND ", (*CPU).and},
	{"XOR ", (*CPU).xor},
	{"OR ", (*CPU).or},
	{"CP ", (*CPU).cp},
}

func nop(_ *CPU) int {
	return 4
}

func (c *CPU) getPair(p uint8) uint16 {
	switch p {
	case 0:
		return c.getBC()
	case 1:
		return c.getDE()
	case 2:
		return c.getHL()
	default:
		return c.sp
	}
}

func (c *CPU) setPair(p uint8, value uint16) {
	switch p {
	case 0:
		c.setBC(value)
	case 1:
		c.setDE(value)
	case 2:
		c.setHL(value)
	default:
		c.sp = value
	}
}

func buildOpcodes() [256]Instruction {
	var t [256]Instruction

	// D3, DB, DD, E3, E4, EB, EC, ED, F4, FC, FD do nothing
	for op := range t {
		t[op] = Instruction{"UNUSED", implied(nop)}
	}

	t[0x00] = Instruction{"NOP", implied(nop)}

	for p := uint8(0); p < 4; p++ {
		base := p << 4

		t[base|0x01] = Instruction{"LD " + pairNames[p] + ",nn", immediate16(func(c *CPU, nn uint16) int {
			c.setPair(p, nn)
			return 12
		})}
		t[base|0x03] = Instruction{"INC " + pairNames[p], implied(func(c *CPU) int {
			c.setPair(p, c.getPair(p)+1)
			return 8
		})}
		t[base|0x09] = Instruction{"ADD HL," + pairNames[p], implied(func(c *CPU) int {
			c.addToHL(c.getPair(p))
			return 8
		})}
		t[base|0x0B] = Instruction{"DEC " + pairNames[p], implied(func(c *CPU) int {
			c.setPair(p, c.getPair(p)-1)
			return 8
		})}

		t[0xC1|base] = Instruction{"POP " + stackPairNames[p], implied(func(c *CPU) int {
			value := c.popStack()
			if p == 3 {
				c.setAF(value)
			} else {
				c.setPair(p, value)
			}
			return 12
		})}
		t[0xC5|base] = Instruction{"PUSH " + stackPairNames[p], implied(func(c *CPU) int {
			if p == 3 {
				c.pushStack(c.getAF())
			} else {
				c.pushStack(c.getPair(p))
			}
			return 16
		})}
	}

	// INC r, DEC r, LD r,n
	for r := uint8(0); r < 8; r++ {
		base := r << 3
		name := operandNames[r]
		rmw, load := 4, 8
		if r == indirectHL {
			rmw, load = 12, 12
		}

		t[base|0x04] = Instruction{"INC " + name, implied(func(c *CPU) int {
			c.writeOperand(r, c.inc(c.readOperand(r)))
			return rmw
		})}
		t[base|0x05] = Instruction{"DEC " + name, implied(func(c *CPU) int {
			c.writeOperand(r, c.dec(c.readOperand(r)))
			return rmw
		})}
		t[base|0x06] = Instruction{"LD " + name + ",n", immediate8(func(c *CPU, n uint8) int {
			c.writeOperand(r, n)
			return load
		})}
	}

	// LD r,r' (0x76 would be LD (HL),(HL) and is HALT instead)
	for op := 0x40; op < 0x80; op++ {
		dst, src := uint8(op>>3)&7, uint8(op)&7
		cycles := 4
		if dst == indirectHL || src == indirectHL {
			cycles = 8
		}
		t[op] = Instruction{"LD " + operandNames[dst] + "," + operandNames[src], implied(func(c *CPU) int {
			c.writeOperand(dst, c.readOperand(src))
			return cycles
		})}
	}
	t[0x76] = Instruction{"HALT", implied(halt)}

	// ALU A,r and ALU A,n
	for i, alu := range aluOps {
		fn := alu.fn
		for r := uint8(0); r < 8; r++ {
			cycles := 4
			if r == indirectHL {
				cycles = 8
			}
			t[0x80|i<<3|int(r)] = Instruction{alu.name + operandNames[r], implied(func(c *CPU) int {
				fn(c, c.readOperand(r))
				return cycles
			})}
		}
		t[0xC6|i<<3] = Instruction{alu.name + "n", immediate8(func(c *CPU, n uint8) int {
			fn(c, n)
			return 8
		})}
	}

	// conditional branches
	for cc := uint8(0); cc < 4; cc++ {
		name := conditionNames[cc]

		t[0x20|cc<<3] = Instruction{"JR " + name + ",e", relative(func(c *CPU, e int8) int {
			if !c.condition(cc) {
				return 8
			}
			c.pc += uint16(int16(e))
			return 12
		})}
		t[0xC0|cc<<3] = Instruction{"RET " + name, implied(func(c *CPU) int {
			if !c.condition(cc) {
				return 8
			}
			c.ret()
			return 20
		})}
		t[0xC2|cc<<3] = Instruction{"JP " + name + ",nn", immediate16(func(c *CPU, nn uint16) int {
			if !c.condition(cc) {
				return 12
			}
			c.jump(nn)
			return 16
		})}
		t[0xC4|cc<<3] = Instruction{"CALL " + name + ",nn", immediate16(func(c *CPU, nn uint16) int {
			if !c.condition(cc) {
				return 12
			}
			c.call(nn)
			return 24
		})}
	}

	// RST
	for y := uint16(0); y < 8; y++ {
		vector := y << 3
		t[0xC7|y<<3] = Instruction{fmt.Sprintf("RST %02XH", vector), implied(func(c *CPU) int {
			c.call(vector)
			return 16
		})}
	}

	t[0x02] = Instruction{"LD (BC),A", implied(func(c *CPU) int {
		c.bus.Write(c.getBC(), c.a)
		return 8
	})}
	t[0x12] = Instruction{"LD (DE),A", implied(func(c *CPU) int {
		c.bus.Write(c.getDE(), c.a)
		return 8
	})}
	t[0x22] = Instruction{"LD (HL+),A", implied(func(c *CPU) int {
		hl := c.getHL()
		c.bus.Write(hl, c.a)
		c.setHL(hl + 1)
		return 8
	})}
	t[0x32] = Instruction{"LD (HL-),A", implied(func(c *CPU) int {
		hl := c.getHL()
		c.bus.Write(hl, c.a)
		c.setHL(hl - 1)
		return 8
	})}
	t[0x0A] = Instruction{"LD A,(BC)", implied(func(c *CPU) int {
		c.a = c.bus.Read(c.getBC())
		return 8
	})}
	t[0x1A] = Instruction{"LD A,(DE)", implied(func(c *CPU) int {
		c.a = c.bus.Read(c.getDE())
		return 8
	})}
	t[0x2A] = Instruction{"LD A,(HL+)", implied(func(c *CPU) int {
		hl := c.getHL()
		c.a = c.bus.Read(hl)
		c.setHL(hl + 1)
		return 8
	})}
	t[0x3A] = Instruction{"LD A,(HL-)", implied(func(c *CPU) int {
		hl := c.getHL()
		c.a = c.bus.Read(hl)
		c.setHL(hl - 1)
		return 8
	})}

	t[0x07] = Instruction{"RLCA", implied(func(c *CPU) int { c.rotateA((*CPU).rlc); return 4 })}
	t[0x0F] = Instruction{"RRCA", implied(func(c *CPU) int { c.rotateA((*CPU).rrc); return 4 })}
	t[0x17] = Instruction{"RLA", implied(func(c *CPU) int { c.rotateA((*CPU).rl); return 4 })}
	t[0x1F] = Instruction{"RRA", implied(func(c *CPU) int { c.rotateA((*CPU).rr); return 4 })}

	t[0x27] = Instruction{"DAA", implied(func(c *CPU) int { c.daa(); return 4 })}
	t[0x2F] = Instruction{"CPL", implied(func(c *CPU) int { c.cpl(); return 4 })}
	t[0x37] = Instruction{"SCF", implied(func(c *CPU) int { c.scf(); return 4 })}
	t[0x3F] = Instruction{"CCF", implied(func(c *CPU) int { c.ccf(); return 4 })}

	t[0x08] = Instruction{"LD (nn),SP", immediate16(ldAddrSP)}
	t[0x10] = Instruction{"STOP", immediate8(stop)}
	t[0x18] = Instruction{"JR e", relative(func(c *CPU, e int8) int {
		c.pc += uint16(int16(e))
		return 12
	})}

	t[0xC3] = Instruction{"JP nn", immediate16(func(c *CPU, nn uint16) int {
		c.jump(nn)
		return 16
	})}
	t[0xC9] = Instruction{"RET", implied(func(c *CPU) int {
		c.ret()
		return 16
	})}
	t[0xCB] = Instruction{"PREFIX CB", immediate8(prefixCB)}
	t[0xCD] = Instruction{"CALL nn", immediate16(func(c *CPU, nn uint16) int {
		c.call(nn)
		return 24
	})}
	t[0xD9] = Instruction{"RETI", implied(func(c *CPU) int {
		c.ret()
		c.interrupts.EnableMaster()
		return 16
	})}

	t[0xE0] = Instruction{"LDH (n),A", immediate8(func(c *CPU, n uint8) int {
		c.bus.Write(0xFF00|uint16(n), c.a)
		return 12
	})}
	t[0xF0] = Instruction{"LDH A,(n)", immediate8(func(c *CPU, n uint8) int {
		c.a = c.bus.Read(0xFF00 | uint16(n))
		return 12
	})}
	t[0xE2] = Instruction{"LD (C),A", implied(func(c *CPU) int {
		c.bus.Write(0xFF00|uint16(c.c), c.a)
		return 8
	})}
	t[0xF2] = Instruction{"LD A,(C)", implied(func(c *CPU) int {
		c.a = c.bus.Read(0xFF00 | uint16(c.c))
		return 8
	})}
	t[0xEA] = Instruction{"LD (nn),A", immediate16(func(c *CPU, nn uint16) int {
		c.bus.Write(nn, c.a)
		return 16
	})}
	t[0xFA] = Instruction{"LD A,(nn)", immediate16(func(c *CPU, nn uint16) int {
		c.a = c.bus.Read(nn)
		return 16
	})}

	t[0xE8] = Instruction{"ADD SP,e", relative(func(c *CPU, e int8) int {
		c.sp = c.offsetSP(e)
		return 16
	})}
	t[0xF8] = Instruction{"LD HL,SP+e", relative(func(c *CPU, e int8) int {
		c.setHL(c.offsetSP(e))
		return 12
	})}
	t[0xE9] = Instruction{"JP (HL)", implied(func(c *CPU) int {
		c.jump(c.getHL())
		return 4
	})}
	t[0xF9] = Instruction{"LD SP,HL", implied(func(c *CPU) int {
		c.sp = c.getHL()
		return 8
	})}

	t[0xF3] = Instruction{"DI", implied(func(c *CPU) int {
		c.interrupts.StageDisable()
		return 4
	})}
	t[0xFB] = Instruction{"EI", implied(func(c *CPU) int {
		c.interrupts.StageEnable()
		return 4
	})}

	return t
}

// LD (nn),SP
func ldAddrSP(c *CPU, nn uint16) int {
	c.bus.Write(nn, uint8(c.sp))
	c.bus.Write(nn+1, uint8(c.sp>>8))
	return 20
}

// halt stops execution until an interrupt is pending. With IME clear it
// does not halt, and the byte after it is skipped instead.
func halt(c *CPU) int {
	if c.interrupts.IME() {
		c.halted = true
	} else {
		c.pc++
	}
	return 4
}

// stop waits for a button change, the operand byte is ignored.
func stop(c *CPU, _ uint8) int {
	c.stopped = true
	return 4
}
