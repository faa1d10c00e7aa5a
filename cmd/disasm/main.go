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

// disasm reads an 8080 ROM image and prints one disassembled instruction
// per line, address first.
package main

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strconv"

	"gopkg.in/urfave/cli.v2"

	"github.com/knightpp/rs8080/decoder"
)

func main() {
	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rom",
				Aliases: []string{"r"},
				Usage:   "rom file to disassemble",
			},
			&cli.StringFlag{
				Name:    "offset",
				Aliases: []string{"o"},
				Usage:   "address the rom is loaded at, hex",
				Value:   "0",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"w"},
				Usage:   "output file, stdout if empty",
			},
		},
		Name:    "disasm",
		Usage:   "Disassemble an Intel 8080 rom image",
		Version: "v0.0.1",
		Action: func(c *cli.Context) error {
			romFile := c.String("rom")
			if romFile == "" {
				cli.ShowAppHelp(c)
				return cli.Exit("", 86)
			}

			offset, err := strconv.ParseUint(c.String("offset"), 16, 16)
			checkErr(err)

			rom, err := ioutil.ReadFile(romFile)
			checkErr(err)

			out := os.Stdout
			if outFile := c.String("out"); outFile != "" {
				out, err = os.Create(outFile)
				checkErr(err)
				defer out.Close()
			}

			dump(rom, uint16(offset), out)
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

// dump walks the image instruction by instruction. The decoder never fails:
// every first-byte value is defined and trailing truncated operands decode
// with zero padding, so the walk always terminates at the end of the image.
func dump(rom []byte, offset uint16, out *os.File) {
	w := bufio.NewWriter(out)
	defer w.Flush()

	pos := 0
	for pos < len(rom) {
		cmd := decoder.Disassemble(rom[pos:])
		fmt.Fprintf(w, "%04x  %s\n", offset+uint16(pos), cmd)
		if cmd.Length == 0 {
			break
		}
		pos += int(cmd.Length)
	}
}
