package ui

import (
	"fmt"
	"io"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/term"
)

// SetTerminalBackground sets the terminal's default background to hexColor
// via OSC 11 and returns a function that restores it via OSC 111. Nothing is
// written when stdout is not a terminal.
func SetTerminalBackground(hexColor string) func() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}
	return setTermBg(os.Stdout, hexColor)
}

// setTermBg writes the OSC sequences to w. Colors that do not parse as
// #rrggbb are ignored.
func setTermBg(w io.Writer, hexColor string) func() {
	c, err := colorful.Hex(hexColor)
	if err != nil {
		return func() {}
	}
	fmt.Fprintf(w, "\033]11;%s\033\\", c.Hex())

	return func() {
		fmt.Fprint(w, "\033]111\033\\")
	}
}
