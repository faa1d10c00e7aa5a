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

import "math/bits"

// The 8080 condition code register is five independent booleans. We keep
// them as named fields rather than a packed byte because most opcodes only
// touch a proper subset of them; the PSW byte is assembled on demand by
// pack/unpackFlags for PUSH PSW / POP PSW.
const (
	// FlagCarry CY
	FlagCarry uint8 = 0x01
	// flagUnused1 is always 0 on PUSH PSW; some 8080 documentation pins
	// bit 1 high instead, but save states here write 0.
	flagUnused1 uint8 = 0x02
	// FlagParity P
	FlagParity  uint8 = 0x04
	flagUnused3 uint8 = 0x08
	// FlagAuxCarry AC
	FlagAuxCarry uint8 = 0x10
	flagUnused5  uint8 = 0x20
	// FlagZero Z
	FlagZero uint8 = 0x40
	// FlagSign S
	FlagSign uint8 = 0x80
)

// Flags is the 8080 condition code register.
type Flags struct {
	Z  bool
	S  bool
	P  bool
	CY bool
	AC bool
}

// Get reports whether the named flag (one of the Flag* bit constants) is set.
func (f Flags) Get(flag uint8) bool {
	switch flag {
	case FlagZero:
		return f.Z
	case FlagSign:
		return f.S
	case FlagParity:
		return f.P
	case FlagCarry:
		return f.CY
	case FlagAuxCarry:
		return f.AC
	default:
		return false
	}
}

// setZSPAC updates Z, S, P and the AC heuristic from an 8- or 16-bit result.
// CY is left untouched.
func (f *Flags) setZSPAC(v uint16) {
	f.Z = v&0xFF == 0
	f.S = v&0x80 != 0
	f.P = bits.OnesCount8(uint8(v))%2 == 0
	f.AC = v&0x0F == 0
}

// setCmp implements the CMP-family flag update: Z/CY reflect equality and
// unsigned ordering of the operands directly, S/P come from the wrapped
// difference. AC is not computed.
func (f *Flags) setCmp(lhs, rhs uint8) {
	diff := lhs - rhs
	f.Z = lhs == rhs
	f.CY = lhs < rhs
	f.S = diff&0x80 != 0
	f.P = bits.OnesCount8(diff)%2 == 0
}

// pack assembles the PSW low byte: bits 7,6,4,2,0 hold S,Z,AC,P,CY; bits
// 5,3,1 are forced 0 on write.
func (f Flags) pack() uint8 {
	var b uint8
	if f.S {
		b |= FlagSign
	}
	if f.Z {
		b |= FlagZero
	}
	if f.AC {
		b |= FlagAuxCarry
	}
	if f.P {
		b |= FlagParity
	}
	if f.CY {
		b |= FlagCarry
	}
	return b
}

// unpackFlags restores flags from a PSW low byte read via POP PSW. The P
// bit lives at bit 2, not bit 5; bits 5, 3 and 1 are ignored.
func unpackFlags(b uint8) Flags {
	return Flags{
		S:  b&FlagSign != 0,
		Z:  b&FlagZero != 0,
		AC: b&FlagAuxCarry != 0,
		P:  b&FlagParity != 0,
		CY: b&FlagCarry != 0,
	}
}

// String renders the flag register as four characters, ZSPc: each letter
// appears when set, '.' otherwise, carry shown lowercase.
func (f Flags) String() string {
	out := [4]byte{'.', '.', '.', '.'}
	if f.Z {
		out[0] = 'Z'
	}
	if f.S {
		out[1] = 'S'
	}
	if f.P {
		out[2] = 'P'
	}
	if f.CY {
		out[3] = 'c'
	}
	return string(out[:])
}
