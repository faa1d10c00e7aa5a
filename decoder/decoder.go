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

// Package decoder turns raw 8080 instruction bytes into a structured,
// human-readable Command, independent of any execution engine. It never
// reads memory itself; callers hand it the bytes starting at the opcode.
package decoder

import "fmt"

// Command is the decoded shape of a single 8080 instruction: its mnemonic,
// a pre-formatted operand string, how many bytes it occupies, and the raw
// bytes it was decoded from.
type Command struct {
	Mnemonic string
	Operands string
	Length   uint8
	Raw      []byte
}

// String renders "{raw bytes} {mnemonic} {operands}".
func (c Command) String() string {
	hexBytes := ""
	for i, b := range c.Raw {
		if i > 0 {
			hexBytes += " "
		}
		hexBytes += fmt.Sprintf("%02x", b)
	}
	if c.Operands == "" {
		return fmt.Sprintf("%-8s %s", hexBytes, c.Mnemonic)
	}
	return fmt.Sprintf("%-8s %s %s", hexBytes, c.Mnemonic, c.Operands)
}

var regName = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}

const nopuMnemonic = "NOPU"

// Disassemble decodes the single instruction starting at bytes[0]. It reads
// at most three bytes (opcode plus up to a 16-bit immediate) and never looks
// beyond len(bytes); a truncated trailing instruction decodes with whatever
// operand bytes are available, padded with zero.
func Disassemble(bytes []byte) Command {
	if len(bytes) == 0 {
		return Command{Mnemonic: nopuMnemonic, Length: 0, Raw: nil}
	}

	op := bytes[0]
	entry := opcodeTable[op]

	length := entry.length
	raw := bytes
	if len(raw) > int(length) {
		raw = raw[:length]
	}

	var operands string
	switch entry.kind {
	case kindNone:
		operands = entry.fixedOperands
	case kindRegHigh:
		operands = regName[(op>>3)&0x7]
	case kindRegLow:
		operands = regName[op&0x7]
	case kindRegPair:
		operands = rpName(op)
	case kindMovPair:
		dst := regName[(op>>3)&0x7]
		src := regName[op&0x7]
		operands = dst + "," + src
	case kindRegImm8:
		operands = regName[(op>>3)&0x7] + ",#__" + hex8(imm8(bytes))
	case kindLxi:
		operands = rpName(op) + ",#" + hex16(imm16(bytes))
	case kindImm8:
		operands = "#__" + hex8(imm8(bytes))
	case kindImm16:
		operands = "#" + hex16(imm16(bytes))
	case kindAddr:
		operands = "$" + hex16(imm16(bytes))
	case kindRst:
		operands = fmt.Sprintf("%d", (op>>3)&0x7)
	}

	mnemonic := entry.mnemonic
	if mnemonic == "" {
		mnemonic = nopuMnemonic
	}

	return Command{Mnemonic: mnemonic, Operands: operands, Length: length, Raw: raw}
}

func imm8(bytes []byte) uint8 {
	if len(bytes) < 2 {
		return 0
	}
	return bytes[1]
}

func imm16(bytes []byte) uint16 {
	var lo, hi uint8
	if len(bytes) > 1 {
		lo = bytes[1]
	}
	if len(bytes) > 2 {
		hi = bytes[2]
	}
	return uint16(hi)<<8 | uint16(lo)
}

func hex8(v uint8) string { return fmt.Sprintf("%02x", v) }
func hex16(v uint16) string { return fmt.Sprintf("%04x", v) }

func rpName(op uint8) string {
	switch (op >> 4) & 0x3 {
	case 0:
		return "B"
	case 1:
		return "D"
	case 2:
		return "H"
	default:
		// SP for INX/DCX/DAD/LXI, PSW for PUSH/POP. The low nibble
		// tells the two groups apart.
		if op&0xC0 == 0xC0 && (op&0x0F == 0x01 || op&0x0F == 0x05) {
			return "PSW"
		}
		return "SP"
	}
}
