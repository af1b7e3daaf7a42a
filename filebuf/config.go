package filebuf

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/wippyai/variant/errors"
)

const (
	DefaultBufferSize = 4096
	minBufferSize     = 8
)

// Config holds file stream configuration.
type Config struct {
	// Encoding of the file. Nil means the bytes are UTF-8 already and pass
	// through unconverted.
	Encoding encoding.Encoding

	// BufferSize is the size of the internal and external buffers.
	BufferSize int

	// Width is the number of bytes per character in Encoding, or 0 when the
	// width varies. It scales Seek offsets. Ignored when Encoding is nil.
	Width int
}

// DefaultConfig returns a configuration without conversion.
func DefaultConfig() *Config {
	return &Config{
		BufferSize: DefaultBufferSize,
		Width:      1,
	}
}

func (c *Config) normalized() Config {
	out := DefaultConfig()
	if c == nil {
		return *out
	}
	out.Encoding = c.Encoding
	out.Width = c.Width
	if c.BufferSize > 0 {
		out.BufferSize = max(c.BufferSize, minBufferSize)
	}
	if out.Encoding == nil {
		out.Width = 1
	}
	return *out
}

// Lookup resolves an encoding name to a Config fragment: the encoding and its
// character width. "utf-8" and the empty name mean no conversion.
func Lookup(name string) (encoding.Encoding, int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, 1, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, 1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, 1, nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), 0, nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), 0, nil
	case "utf-32le":
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), 4, nil
	case "utf-32be":
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), 4, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, 0, errors.New(errors.PhaseStream, errors.KindUnsupported).
			Detail("unknown encoding %q", name).
			Cause(err).
			Build()
	}
	return enc, 0, nil
}
