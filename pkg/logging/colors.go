package logging

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgBlue)
	debugColor   = color.New(color.FgWhite, color.Faint)

	colorsEnabled = true
)

// InitColors sets whether log output is colorized, honoring NO_COLOR
// (https://no-color.org/) as an override.
func InitColors(enabled bool) {
	colorsEnabled = enabled

	if os.Getenv("NO_COLOR") != "" {
		colorsEnabled = false
	}

	color.NoColor = !colorsEnabled
}

// AreColorsEnabled returns whether colors are currently enabled.
func AreColorsEnabled() bool {
	return colorsEnabled
}

// Error prints an error message in red.
func Error(format string, args ...interface{}) {
	if colorsEnabled {
		errorColor.Printf("ERROR: "+format+"\n", args...)
	} else {
		fmt.Printf("ERROR: "+format+"\n", args...)
	}
}

// Warning prints a warning message in yellow.
func Warning(format string, args ...interface{}) {
	if colorsEnabled {
		warningColor.Printf("WARN: "+format+"\n", args...)
	} else {
		fmt.Printf("WARN: "+format+"\n", args...)
	}
}

// Success prints a success message in green.
func Success(format string, args ...interface{}) {
	if colorsEnabled {
		successColor.Printf("✓ "+format+"\n", args...)
	} else {
		fmt.Printf("✓ "+format+"\n", args...)
	}
}

// Info prints an info message in blue.
func Info(format string, args ...interface{}) {
	if colorsEnabled {
		infoColor.Printf(format+"\n", args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}

// Debug prints a debug message in faint white, gated by Verbosity via
// VDebug in level.go.
func Debug(format string, args ...interface{}) {
	if colorsEnabled {
		debugColor.Printf(format+"\n", args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
