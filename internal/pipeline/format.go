package pipeline

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Format is a stdout output format
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatNone  Format = "none"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported format names
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return FormatText, nil
	case FormatText, FormatTable, FormatJSON, FormatYAML, FormatNone:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want text, table, json, yaml or none)", ErrUnknownFormat, s)
	}
}

// IsTerminal reports whether stdout is an interactive terminal
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
