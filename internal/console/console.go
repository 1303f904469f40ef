// Package console renders zerolog events for humans.
package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// DebugEnv enables eris stack traces and raw event fields when set.
const DebugEnv = "GDEXT_DEBUG"

// Writer decodes zerolog's JSON events and prints them as one coloured line
// each.
type Writer struct {
	out     io.Writer
	colors  *colorstring.Colorize
	debug   bool
	buffer  strings.Builder
	lock    sync.Mutex
	workDir string
}

// NewWriter returns a Writer printing to out. Colours are stripped when
// noColor is set.
func NewWriter(out io.Writer, noColor bool) *Writer {
	wd, _ := os.Getwd()
	colors := &colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: noColor,
	}

	return &Writer{
		out:     out,
		colors:  colors,
		debug:   Debug(),
		workDir: wd,
	}
}

func (w *Writer) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	var evt map[string]interface{}
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	err = d.Decode(&evt)
	if err != nil {
		return n, eris.Wrapf(err, "cannot decode event: %s", p)
	}

	w.buffer.Reset()
	switch evt[zerolog.LevelFieldName] {
	case "fatal", "panic", "error":
		w.buffer.WriteString(w.colors.Color("[red]"))
	case "warn":
		w.buffer.WriteString(w.colors.Color("[yellow]"))
	case "debug", "trace":
		w.buffer.WriteString(w.colors.Color("[blue]"))
	default:
		w.buffer.WriteString(w.colors.Color("[green]"))
	}

	if kind, ok := evt["type"].(string); ok {
		w.buffer.WriteString(kind + ": ")
	}

	if evt[zerolog.LevelFieldName] == "error" {
		w.buffer.WriteString("Error: ")
	}

	msg, _ := evt[zerolog.MessageFieldName].(string)

	if path, ok := evt["path"].(string); ok && w.workDir != "" {
		// absolute paths are noise next to the relative ones in messages
		if relPath, err := filepath.Rel(w.workDir, path); err == nil && !strings.HasPrefix(relPath, "..") {
			msg = strings.ReplaceAll(msg, path, relPath)
		}
	}

	// messages are written raw, colorstring would eat "[name]" in them
	w.buffer.WriteString(msg)

	if errorDetails, ok := evt[zerolog.ErrorFieldName].(string); ok {
		w.buffer.WriteString("\n")
		w.buffer.WriteString(errorDetails)
	}

	if w.debug {
		w.buffer.WriteString("\n")
		names := make([]string, 0, len(evt))
		for name := range evt {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			w.buffer.WriteString(fmt.Sprintf("  %s: %+v\n", name, evt[name]))
		}
	}

	w.buffer.WriteString(w.colors.Color("[reset]"))
	w.buffer.WriteString("\n")
	if _, err := io.WriteString(w.out, w.buffer.String()); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Debug reports whether DebugEnv is set.
func Debug() bool {
	return os.Getenv(DebugEnv) != ""
}

// NewLogger builds the logger the CLI puts into the context: coloured
// console output, or raw JSON lines when asJSON is set.
func NewLogger(out io.Writer, level zerolog.Level, asJSON bool) zerolog.Logger {
	var w io.Writer = out
	if !asJSON {
		w = NewWriter(out, false)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func init() {
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		return eris.ToString(err, Debug())
	}
}
