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

package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/knightpp/rs8080/cpu"
	"github.com/knightpp/rs8080/decoder"
)

// continueCap bounds a single 'c' press so a breakpoint that is never
// reached cannot wedge the UI.
const continueCap = 2_000_000

const disasmWindow = 16

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	pcStyle   = lipgloss.NewStyle().Reverse(true)
	helpStyle = lipgloss.NewStyle().Faint(true)
)

type model struct {
	cpu        *cpu.CPU
	rom        []byte
	offset     uint16
	breakpoint uint16
	memView    uint16

	cycles uint64
	status string
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case " ", "j":
			m.step()

		case "c":
			for i := 0; i < continueCap; i++ {
				m.step()
				if m.cpu.PC == m.breakpoint {
					m.status = fmt.Sprintf("breakpoint %04x", m.breakpoint)
					break
				}
			}

		case "i":
			m.cpu.GenerateInterrupt(2)
			m.status = "rst 2 injected"

		case "r":
			c := m.cpu
			c.A, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0
			c.SP = 0
			c.Flags = cpu.Flags{}
			mem := c.MutMem()
			for i := range mem {
				mem[i] = 0
			}
			c.LoadToMem(m.rom, m.offset)
			c.PC = m.offset
			m.cycles = 0
			m.status = "reset"

		case "[":
			m.memView -= 16 * 8
		case "]":
			m.memView += 16 * 8
		case "h":
			m.memView = m.cpu.HL() &^ 0xF
		}
	}
	return m, nil
}

// step retires one instruction, converting an engine panic (HLT, dispatch
// hole) into a status line instead of tearing the terminal down.
func (m *model) step() {
	defer func() {
		if r := recover(); r != nil {
			m.status = fmt.Sprint(r)
		}
	}()
	m.cycles += uint64(m.cpu.Step())
}

func (m model) registers() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, " A: %02x\n", m.cpu.A)
	fmt.Fprintf(sb, "BC: %04x\n", m.cpu.BC())
	fmt.Fprintf(sb, "DE: %04x\n", m.cpu.DE())
	fmt.Fprintf(sb, "HL: %04x\n", m.cpu.HL())
	fmt.Fprintf(sb, "SP: %04x\n", m.cpu.SP)
	fmt.Fprintf(sb, "PC: %04x\n", m.cpu.PC)
	fmt.Fprintf(sb, "\nflags %s\n", m.cpu.Flags)
	fmt.Fprintf(sb, "int   %v\n", m.cpu.IntEnabled())
	fmt.Fprintf(sb, "T     %d", m.cycles)
	return sb.String()
}

// disassembly walks forward from PC, one decoded instruction per line, the
// current one highlighted.
func (m model) disassembly() string {
	mem := m.cpu.Mem()
	lines := make([]string, 0, disasmWindow)
	addr := m.cpu.PC
	for i := 0; i < disasmWindow; i++ {
		cmd := decoder.Disassemble(mem[addr:])
		line := fmt.Sprintf("%04x  %s", addr, cmd)
		if i == 0 {
			line = pcStyle.Render(line)
		}
		lines = append(lines, line)
		addr += uint16(cmd.Length)
		if int(addr) >= len(mem) {
			break
		}
	}
	return strings.Join(lines, "\n")
}

// memPage renders eight 16-byte rows starting at memView, bracketing the
// byte PC points at when it falls inside the window.
func (m model) memPage() string {
	mem := m.cpu.Mem()
	sb := &strings.Builder{}
	for row := 0; row < 8; row++ {
		start := m.memView + uint16(row*16)
		fmt.Fprintf(sb, "%04x |", start)
		for i := 0; i < 16; i++ {
			addr := start + uint16(i)
			if addr == m.cpu.PC {
				fmt.Fprintf(sb, "[%02x]", mem[addr])
			} else {
				fmt.Fprintf(sb, " %02x ", mem[addr])
			}
		}
		if row < 7 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (m model) View() string {
	top := lipgloss.JoinHorizontal(
		lipgloss.Top,
		panelStyle.Render(m.registers()),
		panelStyle.Render(m.disassembly()),
	)
	bottom := panelStyle.Render(m.memPage())
	help := helpStyle.Render("space/j step   c continue   i rst2   r reset   [ ] page   h goto hl   q quit")

	status := m.status
	if status != "" {
		status = "  " + status
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom, help+status)
}
