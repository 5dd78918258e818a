package expectorate

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	// EnvVar selects the mode. Only the exact value OverwriteValue enables overwrite mode.
	EnvVar = "EXPECTORATE"

	// OverwriteValue is the value of EnvVar that accepts actual output as the new reference.
	OverwriteValue = "overwrite"
)

// Mode is what an assertion does with a reference file.
type Mode int

const (
	ModeCheck     Mode = iota // Compare against the reference file; never write it.
	ModeOverwrite             // Replace the reference file with the actual value when they differ.
)

func (m Mode) String() string {
	if m == ModeOverwrite {
		return "overwrite"
	}
	return "check"
}

// ModeFromValue maps a raw EnvVar value to a Mode. The match is exact: no trimming, no case folding.
func ModeFromValue(v string) Mode {
	if v == OverwriteValue {
		return ModeOverwrite
	}
	return ModeCheck
}

// ColorMode controls ANSI colors in rendered diffs.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Color only if Out is a terminal and NO_COLOR is unset.
	ColorAlways                  // Always color.
	ColorNever                   // Never color.
)

// Config is everything an assertion needs besides the path and the actual value. The zero value is check mode, creation permitted, auto color, stdout.
type Config struct {
	Mode Mode

	// NoCreate makes overwrite mode fail instead of creating a reference file that does not exist yet. Use it to catch mistyped paths.
	NoCreate bool

	Color ColorMode

	// Out receives rendered diffs. If nil, os.Stdout is used.
	Out io.Writer
}

// ConfigFromEnv reads EnvVar once and returns a Config for it. Other fields have their zero values.
func ConfigFromEnv() Config {
	return Config{Mode: ModeFromValue(os.Getenv(EnvVar))}
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// useColor resolves c.Color against the output writer.
func (c Config) useColor() bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := c.out().(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
