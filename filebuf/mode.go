package filebuf

import (
	"os"
	"strings"

	"github.com/wippyai/variant/errors"
)

// Mode is a combination of open flags.
type Mode uint8

const (
	In Mode = 1 << iota
	Out
	App
	Trunc
	Binary
	Ate
)

var modeNames = []struct {
	mode Mode
	name string
}{
	{In, "in"},
	{Out, "out"},
	{App, "app"},
	{Trunc, "trunc"},
	{Binary, "binary"},
	{Ate, "ate"},
}

func (m Mode) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, mn := range modeNames {
		if m&mn.mode != 0 {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "|")
}

// flag maps m to os.OpenFile flags the way fopen maps its mode strings.
func (m Mode) flag() (int, error) {
	switch m &^ (Ate | Binary) {
	case Out, Out | Trunc:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case App, Out | App:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	case In:
		return os.O_RDONLY, nil
	case In | Out:
		return os.O_RDWR, nil
	case In | Out | Trunc:
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, nil
	case In | App, In | Out | App:
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, nil
	}
	return 0, errors.InvalidMode(m)
}
