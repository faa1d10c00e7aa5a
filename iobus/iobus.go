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

// Package iobus defines the port interface the cpu package dispatches
// IN/OUT instructions through. The 8080's port space is separate from its
// memory space and addressed by a single byte.
package iobus

// IOBus is the collaborator a CPU's IN/OUT instructions talk to. PortIn and
// PortOut handle the IN/OUT opcodes directly; Port exposes a port as a
// mutable byte for hosts that want to poke device state between steps
// (e.g. latching a shift-register result before the next IN).
type IOBus interface {
	// PortIn returns the byte currently observable on port.
	PortIn(port uint8) uint8
	// PortOut writes b to port.
	PortOut(port uint8, b uint8)
	// Port returns a pointer to port's backing byte, or nil if the bus
	// does not expose direct access to it.
	Port(port uint8) *uint8
}

// NullBus is a minimal IOBus: all 256 ports are independent, zero-initialized
// bytes with no side effects. Useful as a default for hosts and tests that
// don't care about device behavior.
type NullBus struct {
	ports [256]uint8
}

// NewNullBus returns a NullBus with every port initialized to zero.
func NewNullBus() *NullBus { return &NullBus{} }

// PortIn returns the byte last written to port (zero initially).
func (n *NullBus) PortIn(port uint8) uint8 { return n.ports[port] }

// PortOut stores b at port with no further effect.
func (n *NullBus) PortOut(port uint8, b uint8) { n.ports[port] = b }

// Port returns a pointer to port's backing byte.
func (n *NullBus) Port(port uint8) *uint8 { return &n.ports[port] }
