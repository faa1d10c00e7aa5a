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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knightpp/rs8080/iobus"
	"github.com/knightpp/rs8080/mempolicy"
)

func TestNewIsZeroed(t *testing.T) {
	c := New(iobus.NewNullBus())
	if c.A != 0 || c.BC() != 0 || c.DE() != 0 || c.HL() != 0 || c.SP != 0 || c.PC != 0 {
		t.Error("registers not zeroed at construction")
	}
	if c.IntEnabled() {
		t.Error("interrupt latch set at construction")
	}
	if c.Flags != (Flags{}) {
		t.Error("flags not cleared at construction")
	}
}

func TestLoadToMem(t *testing.T) {
	c := New(iobus.NewNullBus())
	c.LoadToMem([]byte{0xDE, 0xAD, 0xBE, 0xEF}, 0x2400)
	mem := c.Mem()
	assert.Equal(t, uint8(0xDE), mem[0x2400])
	assert.Equal(t, uint8(0xEF), mem[0x2403])
	assert.Equal(t, uint8(0x00), mem[0x2404])
}

func TestLoadToMemOverflowPanics(t *testing.T) {
	c := New(iobus.NewNullBus())
	require.Panics(t, func() {
		c.LoadToMem(make([]byte, 3), 0xFFFE)
	})
	// the exact end of the address space is still fine
	require.NotPanics(t, func() {
		c.LoadToMem(make([]byte, 2), 0xFFFE)
	})
}

func TestRegisterPairComposition(t *testing.T) {
	c := New(iobus.NewNullBus())
	c.SetBC(0x1234)
	assert.Equal(t, uint8(0x12), c.B, "high byte is the first-named register")
	assert.Equal(t, uint8(0x34), c.C)
	c.D = 0xAB
	c.E = 0xCD
	assert.Equal(t, uint16(0xABCD), c.DE())
}

// fencePolicy drops writes below the boundary, rewrites the magic byte 0x13
// above it, and substitutes reads below the boundary with 0xEE.
type fencePolicy struct {
	boundary uint16
}

func (f fencePolicy) CheckWrite(addr uint16, b uint8) (mempolicy.WriteAction, uint8) {
	if addr < f.boundary {
		return mempolicy.Ignore, b
	}
	if b == 0x13 {
		return mempolicy.Substitute, 0x37
	}
	return mempolicy.Allow, b
}

func (f fencePolicy) CheckRead(addr uint16, b uint8) uint8 {
	if addr >= f.boundary {
		return b
	}
	return 0xEE
}

func TestWriteMediation(t *testing.T) {
	c := New(iobus.NewNullBus())
	c.SetMemoryPolicy(fencePolicy{boundary: 0x2000})

	// STA into the fenced region is silently dropped.
	c.LoadToMem([]byte{0x32, 0x00, 0x10, 0x32, 0x00, 0x24, 0x32, 0x01, 0x24}, 0)
	c.A = 0x55
	c.Step()
	assert.Equal(t, uint8(0x00), c.Mem()[0x1000])

	// Above the fence the write lands.
	c.Step()
	assert.Equal(t, uint8(0x55), c.Mem()[0x2400])

	// A policy may rewrite the stored byte.
	c.A = 0x13
	c.Step()
	assert.Equal(t, uint8(0x37), c.Mem()[0x2401])
}

func TestReadMediation(t *testing.T) {
	c := New(iobus.NewNullBus())
	c.SetMemoryPolicy(fencePolicy{boundary: 0x2000})
	c.LoadToMem([]byte{0x3A, 0x00, 0x10}, 0) // LDA 0x1000, below the fence
	c.Step()
	assert.Equal(t, uint8(0xEE), c.A, "read substituted by policy")
}

func TestSetMemoryPolicyNilRestoresDefault(t *testing.T) {
	c := New(iobus.NewNullBus())
	c.SetMemoryPolicy(fencePolicy{boundary: 0xFFFF})
	c.SetMemoryPolicy(nil)
	c.LoadToMem([]byte{0x32, 0x00, 0x10}, 0) // STA 0x1000
	c.A = 0x42
	c.Step()
	assert.Equal(t, uint8(0x42), c.Mem()[0x1000])
}

func TestArcadeShadowKeepsROMIntact(t *testing.T) {
	c := New(iobus.NewNullBus())
	c.SetMemoryPolicy(mempolicy.NewArcadeROMShadow())
	c.LoadToMem([]byte{0x32, 0x00, 0x00, 0x32, 0x00, 0x24}, 0)
	c.A = 0x99
	c.Step() // STA 0x0000, rom
	assert.Equal(t, uint8(0x32), c.Mem()[0x0000], "rom write ignored")
	c.Step() // STA 0x2400, ram
	assert.Equal(t, uint8(0x99), c.Mem()[0x2400])
}

func TestDisassembleNext(t *testing.T) {
	c := New(iobus.NewNullBus())
	c.LoadToMem([]byte{0x00, 0xC3, 0x10, 0x27}, 0)
	c.PC = 1
	cmd := c.DisassembleNext()
	assert.Equal(t, "JMP", cmd.Mnemonic)
	assert.Equal(t, "$2710", cmd.Operands)
	assert.Equal(t, uint16(1), c.PC, "disassembly must not advance PC")
}

type captureLogger struct {
	lines []string
}

func (l *captureLogger) Log(msg string) { l.lines = append(l.lines, msg) }

func TestTraceLogging(t *testing.T) {
	c := New(iobus.NewNullBus())
	c.LoadToMem([]byte{0x3E, 0x05}, 0)

	logger := &captureLogger{}
	c.SetLogger(logger)
	c.Step()
	if len(logger.lines) != 0 {
		t.Fatal("trace emitted while disabled")
	}

	c.PC = 0
	c.SetTraceEnabled(true)
	c.Step()
	if len(logger.lines) != 1 {
		t.Fatalf("trace lines = %v, want 1", len(logger.lines))
	}
	if !strings.Contains(logger.lines[0], "MVI") {
		t.Errorf("trace line %q missing mnemonic", logger.lines[0])
	}
	if !strings.Contains(logger.lines[0], "a=05") {
		t.Errorf("trace line %q missing post-step accumulator", logger.lines[0])
	}
}

func TestStringSnapshot(t *testing.T) {
	c := New(iobus.NewNullBus())
	c.A = 0xAB
	c.SetBC(0x1234)
	c.SP = 0x2400
	c.Flags.Z = true
	s := c.String()
	assert.Contains(t, s, "a=ab")
	assert.Contains(t, s, "bc=1234")
	assert.Contains(t, s, "sp=2400")
	assert.Contains(t, s, "Z...")
}
