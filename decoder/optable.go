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

// opKind tags how an opcodeInfo's operand string is assembled.
type opKind int

const (
	kindNone opKind = iota
	kindRegHigh
	kindRegLow
	kindRegPair
	kindMovPair
	kindRegImm8
	kindLxi
	kindImm8
	kindImm16
	kindAddr
	kindRst
)

type opcodeInfo struct {
	mnemonic      string
	kind          opKind
	length        uint8
	fixedOperands string
}

// opcodeTable is a 256-entry dispatch table from opcode byte to decoding
// shape, built once at init.
var opcodeTable = buildOpcodeTable()

func buildOpcodeTable() [256]opcodeInfo {
	var t [256]opcodeInfo

	// Everything defaults to the undocumented-opcode fallback, one byte.
	for i := range t {
		t[i] = opcodeInfo{mnemonic: "", kind: kindNone, length: 1}
	}

	// 0x00/0x08/0x10/.../0x38: all seven undocumented NOP duplicates plus the
	// real NOP decode identically.
	for _, op := range []uint8{0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38} {
		t[op] = opcodeInfo{"NOP", kindNone, 1, ""}
	}

	// LXI rp,d16: 00RP0001
	for _, op := range []uint8{0x01, 0x11, 0x21, 0x31} {
		t[op] = opcodeInfo{"LXI", kindLxi, 3, ""}
	}
	// STAX rp (B, D only): 00RP0010
	t[0x02] = opcodeInfo{"STAX", kindRegPair, 1, ""}
	t[0x12] = opcodeInfo{"STAX", kindRegPair, 1, ""}
	// LDAX rp (B, D only): 00RP1010
	t[0x0A] = opcodeInfo{"LDAX", kindRegPair, 1, ""}
	t[0x1A] = opcodeInfo{"LDAX", kindRegPair, 1, ""}
	// INX/DCX/DAD rp: 00RP0011 / 00RP1011 / 00RP1001
	for _, op := range []uint8{0x03, 0x13, 0x23, 0x33} {
		t[op] = opcodeInfo{"INX", kindRegPair, 1, ""}
	}
	for _, op := range []uint8{0x0B, 0x1B, 0x2B, 0x3B} {
		t[op] = opcodeInfo{"DCX", kindRegPair, 1, ""}
	}
	for _, op := range []uint8{0x09, 0x19, 0x29, 0x39} {
		t[op] = opcodeInfo{"DAD", kindRegPair, 1, ""}
	}

	// INR/DCR r: 00DDD100 / 00DDD101, all eight register-field encodings.
	for r := uint8(0); r < 8; r++ {
		t[0x04|(r<<3)] = opcodeInfo{"INR", kindRegHigh, 1, ""}
		t[0x05|(r<<3)] = opcodeInfo{"DCR", kindRegHigh, 1, ""}
	}
	// MVI r,d8: 00DDD110
	for r := uint8(0); r < 8; r++ {
		t[0x06|(r<<3)] = opcodeInfo{"MVI", kindRegImm8, 2, ""}
	}

	t[0x07] = opcodeInfo{"RLC", kindNone, 1, ""}
	t[0x0F] = opcodeInfo{"RRC", kindNone, 1, ""}
	t[0x17] = opcodeInfo{"RAL", kindNone, 1, ""}
	t[0x1F] = opcodeInfo{"RAR", kindNone, 1, ""}
	t[0x22] = opcodeInfo{"SHLD", kindAddr, 3, ""}
	t[0x2A] = opcodeInfo{"LHLD", kindAddr, 3, ""}
	t[0x27] = opcodeInfo{"DAA", kindNone, 1, ""}
	t[0x2F] = opcodeInfo{"CMA", kindNone, 1, ""}
	t[0x32] = opcodeInfo{"STA", kindAddr, 3, ""}
	t[0x37] = opcodeInfo{"STC", kindNone, 1, ""}
	t[0x3A] = opcodeInfo{"LDA", kindAddr, 3, ""}
	t[0x3F] = opcodeInfo{"CMC", kindNone, 1, ""}

	// MOV dst,src: 01DDDSSS, except 0x76 which is HLT.
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			op := 0x40 | (dst << 3) | src
			if op == 0x76 {
				continue
			}
			t[op] = opcodeInfo{"MOV", kindMovPair, 1, ""}
		}
	}
	t[0x76] = opcodeInfo{"HLT", kindNone, 1, ""}

	// ALU r: 10FFFSSS
	aluNames := [8]string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}
	for fn := uint8(0); fn < 8; fn++ {
		for src := uint8(0); src < 8; src++ {
			t[0x80|(fn<<3)|src] = opcodeInfo{aluNames[fn], kindRegLow, 1, ""}
		}
	}

	// Conditional RET/JMP/CALL: 11CCC000 / 11CCC010 / 11CCC100
	condNames := [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
	for cc := uint8(0); cc < 8; cc++ {
		base := uint8(0xC0) | (cc << 3)
		t[base|0x00] = opcodeInfo{"R" + condNames[cc], kindNone, 1, ""}
		t[base|0x02] = opcodeInfo{"J" + condNames[cc], kindAddr, 3, ""}
		t[base|0x04] = opcodeInfo{"C" + condNames[cc], kindAddr, 3, ""}
	}

	// RST n: 11NNN111
	for n := uint8(0); n < 8; n++ {
		t[0xC7|(n<<3)] = opcodeInfo{"RST", kindRst, 1, ""}
	}

	// PUSH/POP rp (BC/DE/HL/PSW): 11RP0101 / 11RP0001. rpName already
	// resolves the top pair to "PSW" for these two low-nibble patterns.
	for _, op := range []uint8{0xC5, 0xD5, 0xE5, 0xF5} {
		t[op] = opcodeInfo{"PUSH", kindRegPair, 1, ""}
	}
	for _, op := range []uint8{0xC1, 0xD1, 0xE1, 0xF1} {
		t[op] = opcodeInfo{"POP", kindRegPair, 1, ""}
	}

	t[0xC3] = opcodeInfo{"JMP", kindAddr, 3, ""}
	t[0xC9] = opcodeInfo{"RET", kindNone, 1, ""}
	t[0xCD] = opcodeInfo{"CALL", kindAddr, 3, ""}
	// 0xCB, 0xD9, 0xDD, 0xED, 0xFD stay on the NOPU fallback.

	t[0xC6] = opcodeInfo{"ADI", kindImm8, 2, ""}
	t[0xCE] = opcodeInfo{"ACI", kindImm8, 2, ""}
	t[0xD6] = opcodeInfo{"SUI", kindImm8, 2, ""}
	t[0xDE] = opcodeInfo{"SBI", kindImm8, 2, ""}
	t[0xE6] = opcodeInfo{"ANI", kindImm8, 2, ""}
	t[0xEE] = opcodeInfo{"XRI", kindImm8, 2, ""}
	t[0xF6] = opcodeInfo{"ORI", kindImm8, 2, ""}
	t[0xFE] = opcodeInfo{"CPI", kindImm8, 2, ""}

	t[0xD3] = opcodeInfo{"OUT", kindImm8, 2, ""}
	t[0xDB] = opcodeInfo{"IN", kindImm8, 2, ""}

	t[0xE3] = opcodeInfo{"XTHL", kindNone, 1, ""}
	t[0xE9] = opcodeInfo{"PCHL", kindNone, 1, ""}
	t[0xEB] = opcodeInfo{"XCHG", kindNone, 1, ""}
	t[0xF3] = opcodeInfo{"DI", kindNone, 1, ""}
	t[0xF9] = opcodeInfo{"SPHL", kindNone, 1, ""}
	t[0xFB] = opcodeInfo{"EI", kindNone, 1, ""}

	return t
}
