// Copyright © 2019 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cpu

import (
	"fmt"

	"github.com/knightpp/rs8080/decoder"
)

// Step fetches, decodes and executes one instruction and returns the number
// of documented clock cycles it consumed, including the conditional-branch
// penalty for taken calls and returns.
func (c *CPU) Step() int {
	startPC := c.PC
	var traced string
	if c.traceEnable {
		traced = decoder.Disassemble(c.mem[startPC:]).String()
	}

	opcode := c.fetch8()
	cycles := c.execute(opcode)

	if c.traceEnable {
		c.logger.Log(fmt.Sprintf("%04x  %-20s %s", startPC, traced, c))
	}

	return cycles
}

// condTrue evaluates one of the eight 8080 branch conditions: NZ,Z,NC,C,
// PO,PE,P,M in that encoding order.
func (c *CPU) condTrue(cc uint8) bool {
	switch cc {
	case 0:
		return !c.Flags.Z
	case 1:
		return c.Flags.Z
	case 2:
		return !c.Flags.CY
	case 3:
		return c.Flags.CY
	case 4:
		return !c.Flags.P
	case 5:
		return c.Flags.P
	case 6:
		return !c.Flags.S
	default:
		return c.Flags.S
	}
}

// getRP reads register-pair index 0=BC,1=DE,2=HL,3=SP, the encoding used
// by LXI/INX/DCX/DAD (PUSH/POP use the same bit positions but substitute
// PSW for SP, handled separately below).
func (c *CPU) getRP(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) setRP(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

func (c *CPU) addToA(v uint8, carryIn bool) {
	var cin uint16
	if carryIn && c.Flags.CY {
		cin = 1
	}
	sum := uint16(c.A) + uint16(v) + cin
	c.Flags.setZSPAC(sum)
	c.Flags.CY = sum > 0xFF
	c.A = uint8(sum)
}

func (c *CPU) subFromA(v uint8, borrowIn bool) {
	var bin uint16
	if borrowIn && c.Flags.CY {
		bin = 1
	}
	diff := uint16(c.A) - uint16(v) - bin
	c.Flags.setZSPAC(diff)
	c.Flags.CY = uint16(c.A) < uint16(v)+bin
	c.A = uint8(diff)
}

func (c *CPU) andWithA(v uint8) {
	res := c.A & v
	c.Flags.setZSPAC(uint16(res))
	c.Flags.CY = false
	c.A = res
}

func (c *CPU) xorWithA(v uint8) {
	res := c.A ^ v
	c.Flags.setZSPAC(uint16(res))
	c.Flags.CY = false
	c.A = res
}

func (c *CPU) orWithA(v uint8) {
	res := c.A | v
	c.Flags.setZSPAC(uint16(res))
	c.Flags.CY = false
	c.A = res
}

func (c *CPU) cmpWithA(v uint8) {
	c.Flags.setCmp(c.A, v)
}

// daa is a heuristic binary-coded-decimal correction, not a silicon-exact
// reproduction of the 8080's internal adjustment logic (an explicit
// non-goal).
func (c *CPU) daa() {
	a := c.A
	cy := c.Flags.CY
	var correction uint8

	lsb := a & 0x0F
	if lsb > 9 || c.Flags.AC {
		correction += 0x06
	}

	msb := a >> 4
	if msb > 9 || cy || (msb == 9 && lsb > 9) {
		correction += 0x60
		cy = true
	}

	result := uint16(a) + uint16(correction)
	c.Flags.setZSPAC(result)
	c.Flags.CY = cy
	c.A = uint8(result)
}

// execute dispatches a single opcode byte. A straight-line switch over the
// opcode's bit pattern is the clearest expression of the 8080's dispatch
// table; the uniform register/ALU/branch groups are matched by mask rather
// than spelled out 256 times over.
func (c *CPU) execute(op uint8) int {
	switch {
	case op == 0x00 || op == 0x08 || op == 0x10 || op == 0x18 ||
		op == 0x20 || op == 0x28 || op == 0x30 || op == 0x38 ||
		op == 0xCB || op == 0xD9 || op == 0xDD || op == 0xED || op == 0xFD:
		return 4 // NOP and its undocumented duplicates

	case op == 0x01 || op == 0x11 || op == 0x21 || op == 0x31: // LXI rp,d16
		v := c.fetch16()
		c.setRP((op>>4)&3, v)
		return 10

	case op == 0x02: // STAX B
		c.writeMem(c.BC(), c.A)
		return 7
	case op == 0x12: // STAX D
		c.writeMem(c.DE(), c.A)
		return 7
	case op == 0x0A: // LDAX B
		c.A = c.readMem(c.BC())
		return 7
	case op == 0x1A: // LDAX D
		c.A = c.readMem(c.DE())
		return 7

	case op == 0x03 || op == 0x13 || op == 0x23 || op == 0x33: // INX rp
		idx := (op >> 4) & 3
		c.setRP(idx, c.getRP(idx)+1)
		return 5
	case op == 0x0B || op == 0x1B || op == 0x2B || op == 0x3B: // DCX rp
		idx := (op >> 4) & 3
		c.setRP(idx, c.getRP(idx)-1)
		return 5
	case op == 0x09 || op == 0x19 || op == 0x29 || op == 0x39: // DAD rp
		sum := uint32(c.HL()) + uint32(c.getRP((op>>4)&3))
		c.Flags.CY = sum > 0xFFFF
		c.SetHL(uint16(sum))
		return 10

	case op&0xC7 == 0x04: // INR r: Z,S,P,AC updated; CY untouched
		idx := (op >> 3) & 7
		cy := c.Flags.CY
		v := c.reg8(idx) + 1
		c.Flags.setZSPAC(uint16(v))
		c.Flags.CY = cy
		c.setReg8(idx, v)
		if idx == 6 {
			return 10
		}
		return 5
	case op&0xC7 == 0x05: // DCR r
		idx := (op >> 3) & 7
		cy := c.Flags.CY
		v := c.reg8(idx) - 1
		c.Flags.setZSPAC(uint16(v))
		c.Flags.CY = cy
		c.setReg8(idx, v)
		if idx == 6 {
			return 10
		}
		return 5
	case op&0xC7 == 0x06: // MVI r,d8
		idx := (op >> 3) & 7
		v := c.fetch8()
		c.setReg8(idx, v)
		if idx == 6 {
			return 10
		}
		return 7

	case op == 0x07: // RLC
		bit7 := c.A >> 7
		c.A = (c.A << 1) | bit7
		c.Flags.CY = bit7 == 1
		return 4
	case op == 0x0F: // RRC
		bit0 := c.A & 1
		c.A = (c.A >> 1) | (bit0 << 7)
		c.Flags.CY = bit0 == 1
		return 4
	case op == 0x17: // RAL
		bit7 := c.A >> 7
		var cin uint8
		if c.Flags.CY {
			cin = 1
		}
		c.A = (c.A << 1) | cin
		c.Flags.CY = bit7 == 1
		return 4
	case op == 0x1F: // RAR
		bit0 := c.A & 1
		var cin uint8
		if c.Flags.CY {
			cin = 1
		}
		c.A = (c.A >> 1) | (cin << 7)
		c.Flags.CY = bit0 == 1
		return 4

	case op == 0x22: // SHLD a16
		addr := c.fetch16()
		c.writeMem(addr, c.L)
		c.writeMem(addr+1, c.H)
		return 16
	case op == 0x2A: // LHLD a16
		addr := c.fetch16()
		c.L = c.readMem(addr)
		c.H = c.readMem(addr + 1)
		return 16
	case op == 0x27: // DAA
		c.daa()
		return 4
	case op == 0x2F: // CMA
		c.A = ^c.A
		return 4
	case op == 0x32: // STA a16
		addr := c.fetch16()
		c.writeMem(addr, c.A)
		return 13
	case op == 0x37: // STC
		c.Flags.CY = true
		return 4
	case op == 0x3A: // LDA a16
		addr := c.fetch16()
		c.A = c.readMem(addr)
		return 13
	case op == 0x3F: // CMC
		c.Flags.CY = !c.Flags.CY
		return 4

	case op == 0x76: // HLT
		panic("cpu: HLT executed")

	case op&0xC0 == 0x40: // MOV dst,src
		dst, src := (op>>3)&7, op&7
		c.setReg8(dst, c.reg8(src))
		if dst == 6 || src == 6 {
			return 7
		}
		return 5

	case op&0xC0 == 0x80: // ALU r: ADD/ADC/SUB/SBB/ANA/XRA/ORA/CMP
		fn, idx := (op>>3)&7, op&7
		v := c.reg8(idx)
		switch fn {
		case 0:
			c.addToA(v, false)
		case 1:
			c.addToA(v, true)
		case 2:
			c.subFromA(v, false)
		case 3:
			c.subFromA(v, true)
		case 4:
			c.andWithA(v)
		case 5:
			c.xorWithA(v)
		case 6:
			c.orWithA(v)
		case 7:
			c.cmpWithA(v)
		}
		if idx == 6 {
			return 7
		}
		return 4

	case op&0xC7 == 0xC0: // conditional RET
		if c.condTrue((op >> 3) & 7) {
			c.ret()
			return 11
		}
		return 5

	case op&0xC7 == 0xC2: // conditional JMP
		addr := c.fetch16()
		if c.condTrue((op >> 3) & 7) {
			c.PC = addr
		}
		return 10

	case op&0xC7 == 0xC4: // conditional CALL
		addr := c.fetch16()
		if c.condTrue((op >> 3) & 7) {
			c.call(addr)
			return 17
		}
		return 11

	case op&0xC7 == 0xC7: // RST n
		n := (op >> 3) & 7
		c.call(uint16(n) * 8)
		return 11

	case op&0xCF == 0xC5: // PUSH rp (BC/DE/HL/PSW)
		switch (op >> 4) & 3 {
		case 0:
			c.push16(c.BC())
		case 1:
			c.push16(c.DE())
		case 2:
			c.push16(c.HL())
		default:
			c.push16(uint16(c.A)<<8 | uint16(c.Flags.pack()))
		}
		return 11
	case op&0xCF == 0xC1: // POP rp (BC/DE/HL/PSW)
		v := c.pop16()
		switch (op >> 4) & 3 {
		case 0:
			c.SetBC(v)
		case 1:
			c.SetDE(v)
		case 2:
			c.SetHL(v)
		default:
			c.A = uint8(v >> 8)
			c.Flags = unpackFlags(uint8(v))
		}
		return 10

	case op == 0xC3: // JMP a16
		c.PC = c.fetch16()
		return 10
	case op == 0xC9: // RET
		c.ret()
		return 10
	case op == 0xCD: // CALL a16
		c.call(c.fetch16())
		return 17

	case op == 0xC6: // ADI d8
		c.addToA(c.fetch8(), false)
		return 7
	case op == 0xCE: // ACI d8
		c.addToA(c.fetch8(), true)
		return 7
	case op == 0xD6: // SUI d8
		c.subFromA(c.fetch8(), false)
		return 7
	case op == 0xDE: // SBI d8
		c.subFromA(c.fetch8(), true)
		return 7
	case op == 0xE6: // ANI d8
		c.andWithA(c.fetch8())
		return 7
	case op == 0xEE: // XRI d8
		c.xorWithA(c.fetch8())
		return 7
	case op == 0xF6: // ORI d8
		c.orWithA(c.fetch8())
		return 7
	case op == 0xFE: // CPI d8
		c.cmpWithA(c.fetch8())
		return 7

	case op == 0xD3: // OUT d8
		c.io.PortOut(c.fetch8(), c.A)
		return 10
	case op == 0xDB: // IN d8
		c.A = c.io.PortIn(c.fetch8())
		return 10

	case op == 0xE3: // XTHL
		lo, hi := c.readMem(c.SP), c.readMem(c.SP+1)
		c.writeMem(c.SP, c.L)
		c.writeMem(c.SP+1, c.H)
		c.L, c.H = lo, hi
		return 18
	case op == 0xE9: // PCHL
		c.PC = c.HL()
		return 5
	case op == 0xEB: // XCHG
		c.H, c.D = c.D, c.H
		c.L, c.E = c.E, c.L
		return 4
	case op == 0xF3: // DI
		c.intEnable = false
		return 4
	case op == 0xF9: // SPHL
		c.SP = c.HL()
		return 5
	case op == 0xFB: // EI
		c.intEnable = true
		return 4
	}

	panic(fmt.Sprintf("cpu: unreachable opcode dispatch for 0x%02x", op))
}
