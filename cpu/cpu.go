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

// Package cpu implements the instruction-fetch/decode/execute engine for the
// Intel 8080: architectural state, the flag machine, and the 256-opcode
// dispatch. It depends on two host-supplied collaborators, an IOBus and a
// MemoryPolicy (see the iobus and mempolicy packages), and reuses the
// decoder package for its own diagnostic surface.
package cpu

import (
	"fmt"

	"github.com/knightpp/rs8080/decoder"
	"github.com/knightpp/rs8080/iobus"
	"github.com/knightpp/rs8080/mempolicy"
)

// MemCapacity is the size of the linear address space a CPU can address.
const MemCapacity = 65536

// Logger receives one line per retired instruction when tracing is enabled.
// The default implementation discards everything.
type Logger interface {
	Log(msg string)
}

type discardLogger struct{}

func (discardLogger) Log(string) {}

// CPU holds all Intel 8080 architectural state plus the two collaborators
// the engine mediates through: an I/O bus and a memory policy.
type CPU struct {
	A    uint8
	B, C uint8
	D, E uint8
	H, L uint8

	SP uint16
	PC uint16

	Flags Flags

	intEnable bool

	mem [MemCapacity]uint8

	io     iobus.IOBus
	policy mempolicy.MemoryPolicy

	logger      Logger
	traceEnable bool
}

// New constructs a zeroed CPU attached to the given I/O bus. The memory
// policy defaults to mempolicy.AllowAll{} until SetMemoryPolicy is called.
func New(bus iobus.IOBus) *CPU {
	return &CPU{
		io:     bus,
		policy: mempolicy.AllowAll{},
		logger: discardLogger{},
	}
}

// SetMemoryPolicy replaces the memory policy collaborator. It may be called
// at construction time or later.
func (c *CPU) SetMemoryPolicy(p mempolicy.MemoryPolicy) {
	if p == nil {
		p = mempolicy.AllowAll{}
	}
	c.policy = p
}

// SetLogger installs a Logger for per-instruction tracing. A nil logger
// restores the discarding default.
func (c *CPU) SetLogger(l Logger) {
	if l == nil {
		l = discardLogger{}
	}
	c.logger = l
}

// SetTraceEnabled turns per-instruction trace logging on or off.
func (c *CPU) SetTraceEnabled(enable bool) {
	c.traceEnable = enable
}

// BC returns the BC register pair as a 16-bit value, B in the high byte.
func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }

// DE returns the DE register pair as a 16-bit value, D in the high byte.
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }

// HL returns the HL register pair as a 16-bit value, H in the high byte.
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

// SetBC loads the BC register pair from a 16-bit value.
func (c *CPU) SetBC(v uint16) { c.B, c.C = uint8(v>>8), uint8(v) }

// SetDE loads the DE register pair from a 16-bit value.
func (c *CPU) SetDE(v uint16) { c.D, c.E = uint8(v>>8), uint8(v) }

// SetHL loads the HL register pair from a 16-bit value.
func (c *CPU) SetHL(v uint16) { c.H, c.L = uint8(v>>8), uint8(v) }

// Mem returns the full 64 KiB memory array for read-only inspection, e.g.
// the host snapshotting VRAM for rendering.
func (c *CPU) Mem() *[MemCapacity]uint8 { return &c.mem }

// MutMem returns the full 64 KiB memory array for the host to patch, e.g. a
// diagnostic cartridge overwriting ROM.
func (c *CPU) MutMem() *[MemCapacity]uint8 { return &c.mem }

// LoadToMem copies slice into memory starting at offset. It panics if slice
// would overrun the 64 KiB address space; that is a caller error.
func (c *CPU) LoadToMem(slice []byte, offset uint16) {
	if int(offset)+len(slice) > MemCapacity {
		panic(fmt.Sprintf("load_to_mem: %d bytes at offset %d overruns the 64 KiB address space", len(slice), offset))
	}
	copy(c.mem[offset:], slice)
}

// IntEnabled reports the interrupt-enable latch.
func (c *CPU) IntEnabled() bool { return c.intEnable }

// DisassembleNext decodes the instruction at PC without advancing state,
// using the decoder package that also renders trace lines. Step itself
// does not go through the decoder; it switches on the opcode byte.
func (c *CPU) DisassembleNext() decoder.Command {
	return decoder.Disassemble(c.mem[c.PC:])
}

// String renders a compact one-line register snapshot for trace output.
func (c *CPU) String() string {
	return fmt.Sprintf("a=%02x|bc=%02x%02x|de=%02x%02x|hl=%02x%02x|pc=%04x|sp=%04x   %s",
		c.A, c.B, c.C, c.D, c.E, c.H, c.L, c.PC, c.SP, c.Flags)
}

// readMem applies the memory policy's read substitution to a raw byte.
// Used for explicit CPU memory operands (LDA, MOV r,M, LDAX, ...);
// instruction fetch reads the raw array directly.
func (c *CPU) readMem(addr uint16) uint8 {
	return c.policy.CheckRead(addr, c.mem[addr])
}

// writeMem applies the memory policy's write mediation.
func (c *CPU) writeMem(addr uint16, v uint8) {
	switch action, sub := c.policy.CheckWrite(addr, v); action {
	case mempolicy.Allow:
		c.mem[addr] = v
	case mempolicy.Substitute:
		c.mem[addr] = sub
	case mempolicy.Ignore:
		// policy silently discards the write
	}
}

// fetch8 reads the byte at PC from the raw instruction stream and advances
// PC by one.
func (c *CPU) fetch8() uint8 {
	b := c.mem[c.PC]
	c.PC++
	return b
}

// fetch16 reads a little-endian 16-bit immediate (lo, hi) starting at PC and
// advances PC by two.
func (c *CPU) fetch16() uint16 {
	lo := c.mem[c.PC]
	hi := c.mem[c.PC+1]
	c.PC += 2
	return uint16(hi)<<8 | uint16(lo)
}

// push16 pushes a 16-bit value onto the stack: hi at SP-1, lo at SP-2, then
// SP -= 2. The stack grows downward.
func (c *CPU) push16(v uint16) {
	c.writeMem(c.SP-1, uint8(v>>8))
	c.writeMem(c.SP-2, uint8(v))
	c.SP -= 2
}

// pop16 pops a 16-bit value from the stack: lo at SP, hi at SP+1, then
// SP += 2.
func (c *CPU) pop16() uint16 {
	lo := c.readMem(c.SP)
	hi := c.readMem(c.SP + 1)
	c.SP += 2
	return uint16(hi)<<8 | uint16(lo)
}

// call pushes PC and jumps to addr.
func (c *CPU) call(addr uint16) {
	c.push16(c.PC)
	c.PC = addr
}

// ret pops the return address into PC.
func (c *CPU) ret() {
	c.PC = c.pop16()
}

// GenerateInterrupt clears the interrupt-enable latch and performs a
// synthetic CALL to the RST vector n*8. Hosts call this at VBLANK-style
// boundaries, between Step calls.
func (c *CPU) GenerateInterrupt(n uint8) {
	if n > 7 {
		panic(fmt.Sprintf("generate_interrupt: n=%d out of range 0..7", n))
	}
	c.intEnable = false
	c.call(uint16(n) * 8)
}

// CallInterrupt performs a synthetic CALL to addr without touching the
// interrupt-enable latch, used to replay arcade-specific interrupt vectors.
func (c *CPU) CallInterrupt(addr uint16) {
	c.call(addr)
}

// reg8 reads one of the eight 8080 register-field encodings: B,C,D,E,H,L,M,A
// for indices 0..7, where M (index 6) is memory-at-HL mediated through the
// memory policy.
func (c *CPU) reg8(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.readMem(c.HL())
	default:
		return c.A
	}
}

// setReg8 writes one of the eight 8080 register-field encodings; see reg8.
func (c *CPU) setReg8(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.writeMem(c.HL(), v)
	default:
		c.A = v
	}
}
