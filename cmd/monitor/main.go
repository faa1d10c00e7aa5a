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

// monitor is an interactive single-step debugger for 8080 rom images:
// registers, flags, a disassembly window around PC and a memory hex view,
// driven from the keyboard.
package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/urfave/cli.v2"

	"github.com/knightpp/rs8080/cpu"
	"github.com/knightpp/rs8080/iobus"
	"github.com/knightpp/rs8080/mempolicy"
)

func main() {
	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rom",
				Aliases: []string{"r"},
				Usage:   "rom file to load",
			},
			&cli.StringFlag{
				Name:    "offset",
				Aliases: []string{"o"},
				Usage:   "address the rom is loaded at, hex",
				Value:   "0",
			},
			&cli.StringFlag{
				Name:    "break",
				Aliases: []string{"b"},
				Usage:   "breakpoint address for continue, hex",
				Value:   "ffff",
			},
			&cli.BoolFlag{
				Name:    "shadow",
				Aliases: []string{"s"},
				Usage:   "attach the arcade rom/mirror write guard",
			},
			&cli.StringFlag{
				Name:    "trace",
				Aliases: []string{"t"},
				Usage:   "write a per-instruction trace to this file",
			},
		},
		Name:    "monitor",
		Usage:   "Interactive Intel 8080 monitor",
		Version: "v0.0.1",
		Action: func(c *cli.Context) error {
			romFile := c.String("rom")
			if romFile == "" {
				cli.ShowAppHelp(c)
				return cli.Exit("", 86)
			}

			offset, err := strconv.ParseUint(c.String("offset"), 16, 16)
			checkErr(err)
			brk, err := strconv.ParseUint(c.String("break"), 16, 16)
			checkErr(err)

			rom, err := ioutil.ReadFile(romFile)
			checkErr(err)

			machine := cpu.New(iobus.NewNullBus())
			if c.Bool("shadow") {
				machine.SetMemoryPolicy(mempolicy.NewArcadeROMShadow())
			}
			if traceFile := c.String("trace"); traceFile != "" {
				f, err := os.Create(traceFile)
				checkErr(err)
				defer f.Close()
				machine.SetLogger(fileLogger{f})
				machine.SetTraceEnabled(true)
			}
			machine.LoadToMem(rom, uint16(offset))
			machine.PC = uint16(offset)

			m := model{
				cpu:        machine,
				rom:        rom,
				offset:     uint16(offset),
				breakpoint: uint16(brk),
				memView:    uint16(offset) &^ 0xF,
			}
			_, err = tea.NewProgram(m).Run()
			checkErr(err)
			return nil
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	app.Run(os.Args)
}

func checkErr(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

// fileLogger appends one trace line per retired instruction to a file.
type fileLogger struct {
	f *os.File
}

func (l fileLogger) Log(msg string) {
	fmt.Fprintln(l.f, msg)
}
