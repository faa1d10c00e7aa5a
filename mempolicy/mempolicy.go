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

// Package mempolicy mediates the memory reads and writes of the cpu
// package's explicit memory operands; instruction fetch bypasses it.
// A MemoryPolicy can let a write through unchanged,
// rewrite it, or silently drop it, and can substitute the byte a read
// observes, the hook an arcade board uses to shadow ROM or fake a sensor.
package mempolicy

// WriteAction is the verdict a MemoryPolicy returns for a prospective write.
type WriteAction int

const (
	// Allow lets the write proceed with its original byte.
	Allow WriteAction = iota
	// Substitute replaces the byte that is actually stored.
	Substitute
	// Ignore drops the write entirely; memory is left unchanged.
	Ignore
)

// MemoryPolicy mediates CPU-originated memory access. CheckWrite is called
// before architectural memory is mutated; CheckRead is called whenever the
// CPU reads an explicit memory operand (not raw instruction fetch, which
// bypasses policy; see cpu.readMem).
type MemoryPolicy interface {
	// CheckWrite decides the fate of a write of b to addr. When it returns
	// Substitute, the returned byte replaces b.
	CheckWrite(addr uint16, b uint8) (WriteAction, uint8)
	// CheckRead returns the byte the CPU should observe when reading addr;
	// b is the byte actually stored there.
	CheckRead(addr uint16, b uint8) uint8
}

// AllowAll is the default MemoryPolicy: every write proceeds unmodified and
// every read observes the stored byte untouched.
type AllowAll struct{}

// CheckWrite always allows the write through.
func (AllowAll) CheckWrite(_ uint16, b uint8) (WriteAction, uint8) { return Allow, b }

// CheckRead always returns the stored byte.
func (AllowAll) CheckRead(_ uint16, b uint8) uint8 { return b }
