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

package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisassembleEveryFirstByteIsDefined(t *testing.T) {
	// All 256 opcode slots decode without failing and claim 1 to 3 bytes.
	buf := []byte{0x00, 0x34, 0x12}
	for op := 0; op < 256; op++ {
		buf[0] = byte(op)
		cmd := Disassemble(buf)
		if cmd.Mnemonic == "" {
			t.Errorf("opcode %#02x: empty mnemonic", op)
		}
		if cmd.Length < 1 || cmd.Length > 3 {
			t.Errorf("opcode %#02x: length = %v", op, cmd.Length)
		}
		if len(cmd.Raw) != int(cmd.Length) {
			t.Errorf("opcode %#02x: raw = %v bytes, length = %v", op, len(cmd.Raw), cmd.Length)
		}
	}
}

func TestDisassembleShapes(t *testing.T) {
	tests := []struct {
		bytes    []byte
		mnemonic string
		operands string
		length   uint8
	}{
		{[]byte{0x00}, "NOP", "", 1},
		{[]byte{0x08}, "NOP", "", 1},
		{[]byte{0x01, 0x34, 0x12}, "LXI", "B,#1234", 3},
		{[]byte{0x31, 0xFE, 0x23}, "LXI", "SP,#23fe", 3},
		{[]byte{0x02}, "STAX", "B", 1},
		{[]byte{0x1A}, "LDAX", "D", 1},
		{[]byte{0x09}, "DAD", "B", 1},
		{[]byte{0x39}, "DAD", "SP", 1},
		{[]byte{0x04}, "INR", "B", 1},
		{[]byte{0x3D}, "DCR", "A", 1},
		{[]byte{0x36, 0xFF}, "MVI", "M,#__ff", 2},
		{[]byte{0x3E, 0x05}, "MVI", "A,#__05", 2},
		{[]byte{0x22, 0x00, 0x24}, "SHLD", "$2400", 3},
		{[]byte{0x3A, 0x10, 0x00}, "LDA", "$0010", 3},
		{[]byte{0x41}, "MOV", "B,C", 1},
		{[]byte{0x77}, "MOV", "M,A", 1},
		{[]byte{0x76}, "HLT", "", 1},
		{[]byte{0x86}, "ADD", "M", 1},
		{[]byte{0x9F}, "SBB", "A", 1},
		{[]byte{0xBE}, "CMP", "M", 1},
		{[]byte{0xC0}, "RNZ", "", 1},
		{[]byte{0xCA, 0x10, 0x27}, "JZ", "$2710", 3},
		{[]byte{0xDC, 0xCD, 0xAB}, "CC", "$abcd", 3},
		{[]byte{0xC3, 0x10, 0x00}, "JMP", "$0010", 3},
		{[]byte{0xCD, 0x06, 0x00}, "CALL", "$0006", 3},
		{[]byte{0xC9}, "RET", "", 1},
		{[]byte{0xC5}, "PUSH", "B", 1},
		{[]byte{0xF5}, "PUSH", "PSW", 1},
		{[]byte{0xF1}, "POP", "PSW", 1},
		{[]byte{0xE1}, "POP", "H", 1},
		{[]byte{0xC6, 0x03}, "ADI", "#__03", 2},
		{[]byte{0xFE, 0x05}, "CPI", "#__05", 2},
		{[]byte{0xD3, 0x10}, "OUT", "#__10", 2},
		{[]byte{0xDB, 0x01}, "IN", "#__01", 2},
		{[]byte{0xD7}, "RST", "2", 1},
		{[]byte{0xFF}, "RST", "7", 1},
		{[]byte{0xE3}, "XTHL", "", 1},
		{[]byte{0xEB}, "XCHG", "", 1},
		{[]byte{0xE9}, "PCHL", "", 1},
		{[]byte{0xF9}, "SPHL", "", 1},
		{[]byte{0x27}, "DAA", "", 1},
		{[]byte{0xFB}, "EI", "", 1},
		{[]byte{0xF3}, "DI", "", 1},
	}
	for _, tt := range tests {
		cmd := Disassemble(tt.bytes)
		assert.Equal(t, tt.mnemonic, cmd.Mnemonic, "bytes %x", tt.bytes)
		assert.Equal(t, tt.operands, cmd.Operands, "bytes %x", tt.bytes)
		assert.Equal(t, tt.length, cmd.Length, "bytes %x", tt.bytes)
	}
}

func TestDisassembleUndocumentedFallback(t *testing.T) {
	// The five holes at the top of the map are one-byte NOPU, per the 8080
	// convention; the engine retires them as plain NOPs.
	for _, op := range []byte{0xCB, 0xD9, 0xDD, 0xED, 0xFD} {
		cmd := Disassemble([]byte{op, 0x12, 0x34})
		if cmd.Mnemonic != "NOPU" {
			t.Errorf("opcode %#02x: mnemonic = %q, want NOPU", op, cmd.Mnemonic)
		}
		if cmd.Length != 1 {
			t.Errorf("opcode %#02x: length = %v, want 1", op, cmd.Length)
		}
	}
}

func TestDisassembleTruncatedOperands(t *testing.T) {
	// A trailing instruction whose operands run off the end of the image
	// decodes with zero padding instead of failing.
	cmd := Disassemble([]byte{0xC3, 0x10})
	assert.Equal(t, "JMP", cmd.Mnemonic)
	assert.Equal(t, "$0010", cmd.Operands)
	assert.Equal(t, []byte{0xC3, 0x10}, cmd.Raw)
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		bytes []byte
		want  string
	}{
		{[]byte{0xC3, 0x10, 0x27}, "c3 10 27 JMP $2710"},
		{[]byte{0x3E, 0x05}, "3e 05    MVI A,#__05"},
		{[]byte{0x00}, "00       NOP"},
	}
	for _, tt := range tests {
		if got := Disassemble(tt.bytes).String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
