// Package logging builds the zerolog logger used by the opushead command.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Formats accepted by New.
const (
	FormatAuto  = ""
	FormatColor = "color"
	FormatText  = "text"
	FormatJSON  = "json"
)

// New returns a logger writing to w.
//
// format selects the encoding: FormatJSON writes one JSON object per line,
// the others use a console writer. FormatAuto enables color only when w is
// a terminal. level is parsed by zerolog.ParseLevel; an empty level means
// info.
func New(w io.Writer, format, level string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		if lvl, err = zerolog.ParseLevel(level); err != nil {
			return zerolog.Nop(), err
		}
	}

	switch format {
	case FormatJSON:
	case FormatAuto, FormatColor, FormatText:
		console := zerolog.ConsoleWriter{
			Out: w,
			PartsOrder: []string{
				zerolog.LevelFieldName,
				zerolog.MessageFieldName,
			},
		}
		switch format {
		case FormatText:
			console.NoColor = true
		case FormatColor:
			console.NoColor = false
		default:
			console.NoColor = !isTerminal(w)
		}
		w = console
	default:
		return zerolog.Nop(), &FormatError{Format: format}
	}

	return zerolog.New(w).Level(lvl), nil
}

// FormatError reports an unknown log format.
type FormatError struct {
	Format string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("logging: unknown format %q", e.Format)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
