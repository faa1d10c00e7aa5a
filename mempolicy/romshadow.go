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

package mempolicy

// ROMShadow ignores writes below RomEnd or at/above MirrorStart, and allows
// them in between. This is the generic policy an arcade board uses to keep
// the CPU from scribbling over its own program ROM: addresses below RomEnd
// hold the cartridge image, addresses at/above MirrorStart are unmapped or
// mirrored, and only the RAM window between the two is writable.
//
// Grounded directly in the Space Invaders board's memory limiter: ROM ends
// at 0x2000, the writable window runs through 0x3FFF, and 0x4000 and up is
// ignored.
type ROMShadow struct {
	RomEnd      uint16
	MirrorStart uint16
}

// NewArcadeROMShadow returns the boundaries the Space Invaders board uses:
// ROM through 0x1FFF, RAM through 0x3FFF, everything at/above 0x4000 ignored.
func NewArcadeROMShadow() ROMShadow {
	return ROMShadow{RomEnd: 0x2000, MirrorStart: 0x4000}
}

// CheckWrite ignores writes to [0, RomEnd) and [MirrorStart, 0x10000),
// allowing everything in between.
func (r ROMShadow) CheckWrite(addr uint16, b uint8) (WriteAction, uint8) {
	if addr < r.RomEnd || addr >= r.MirrorStart {
		return Ignore, b
	}
	return Allow, b
}

// CheckRead performs no substitution; ROMShadow only guards writes.
func (ROMShadow) CheckRead(_ uint16, b uint8) uint8 { return b }
