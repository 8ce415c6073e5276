package depforge

import (
	"fmt"

	"github.com/gookit/color"
)

// Global flags, assigned from config/CLI in main.
var (
	Debug   bool
	version = "dev" // overridden at build time
)

// color helpers
var (
	colInfo    = color.Info // style provided by gookit/color
	colWarn    = color.Warn
	colError   = color.Error
	colSuccess = color.HEX("#1976D2")
	colArrow   = color.HEX("#FFEB3B")
	colNote    = color.Tag("notice")
)

// Version reports the build-time version string.
func Version() string {
	return version
}

// Printf-style message helpers for the CLI.
func Infof(format string, args ...any) { colInfo.Printf(format, args...) }

func Warnf(format string, args ...any) { colWarn.Printf(format, args...) }

func Errorf(format string, args ...any) { colError.Printf(format, args...) }

func Successf(format string, args ...any) { colSuccess.Printf(format, args...) }

func Notef(format string, args ...any) { colNote.Printf(format, args...) }

// debugf prints debug messages when Debug is true
func debugf(format string, args ...any) {
	if Debug {
		fmt.Printf(format, args...)
	}
}
