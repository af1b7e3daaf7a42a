package filebuf

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/wippyai/variant/errors"
)

var (
	latin1 = &Config{Encoding: charmap.ISO8859_1, Width: 1}
	utf16  = &Config{Encoding: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}
	wide   = &Config{Encoding: utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), Width: 4}
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "data.txt")
}

func writeFile(t *testing.T, path, content string, cfg *Config) {
	t.Helper()
	f, err := OpenWithConfig(path, Out, cfg)
	if err != nil {
		t.Fatalf("open for write: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func readFile(t *testing.T, path string, cfg *Config) string {
	t.Helper()
	f, err := OpenWithConfig(path, In, cfg)
	if err != nil {
		t.Fatalf("open for read: %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		content string
		size    int
	}{
		{"passthrough", nil, "hello, wörld", 12 + 1},
		{"latin1", latin1, "café crème", 10},
		{"utf16", utf16, "héllo", 10},
		{"utf32", wide, "añb", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tempPath(t)
			writeFile(t, path, tt.content, tt.cfg)

			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if len(raw) != tt.size {
				t.Errorf("file size = %d, want %d", len(raw), tt.size)
			}

			if got := readFile(t, path, tt.cfg); got != tt.content {
				t.Errorf("read back %q, want %q", got, tt.content)
			}
		})
	}
}

func TestLatin1_OnDisk(t *testing.T) {
	path := tempPath(t)
	writeFile(t, path, "café", latin1)

	raw, _ := os.ReadFile(path)
	if !bytes.Equal(raw, []byte{'c', 'a', 'f', 0xe9}) {
		t.Errorf("raw = %x", raw)
	}
}

func TestSmallBuffers(t *testing.T) {
	cfg := &Config{Encoding: charmap.ISO8859_1, Width: 1, BufferSize: 8}
	content := strings.Repeat("àéîõü-", 40)

	path := tempPath(t)
	f, err := OpenWithConfig(path, Out, cfg)
	if err != nil {
		t.Fatal(err)
	}
	// odd chunk sizes split multi-byte sequences across writes
	for rest := []byte(content); len(rest) > 0; {
		n := min(3, len(rest))
		if _, err := f.Write(rest[:n]); err != nil {
			t.Fatal(err)
		}
		rest = rest[n:]
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if got := readFile(t, path, cfg); got != content {
		t.Errorf("round trip through 8-byte buffers lost data")
	}
}

func TestUnread(t *testing.T) {
	path := tempPath(t)
	writeFile(t, path, "abcdef", nil)

	f, err := Open(path, In)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	buf := make([]byte, 3)
	if _, err := io.ReadFull(f, buf); err != nil {
		t.Fatal(err)
	}
	if err := f.UnreadByte(); err != nil {
		t.Fatalf("UnreadByte: %v", err)
	}
	if b, _ := f.ReadByte(); b != 'c' {
		t.Errorf("after UnreadByte read %q, want 'c'", b)
	}

	if err := f.Unread('c'); err != nil {
		t.Errorf("Unread of the same byte: %v", err)
	}
	if err := f.Unread('z'); err == nil {
		t.Error("read-only stream must refuse a different byte")
	}
}

func TestUnread_Writable(t *testing.T) {
	path := tempPath(t)
	writeFile(t, path, "abc", nil)

	f, err := Open(path, In|Out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.ReadByte(); err != nil {
		t.Fatal(err)
	}
	if err := f.Unread('Z'); err != nil {
		t.Fatalf("Unread: %v", err)
	}
	if b, _ := f.ReadByte(); b != 'Z' {
		t.Errorf("read %q, want pushed-back 'Z'", b)
	}
}

func TestUnread_NothingRead(t *testing.T) {
	path := tempPath(t)
	writeFile(t, path, "abc", nil)

	f, _ := Open(path, In)
	defer f.Close()

	if err := f.UnreadByte(); !stderrors.Is(err, &errors.Error{Kind: errors.KindInvalidInput}) {
		t.Errorf("got %v", err)
	}
}

func TestSeek(t *testing.T) {
	t.Run("fixed width", func(t *testing.T) {
		path := tempPath(t)
		writeFile(t, path, "abcdef", latin1)

		f, _ := OpenWithConfig(path, In, latin1)
		defer f.Close()

		pos, err := f.Seek(2, io.SeekStart)
		if err != nil || pos != 2 {
			t.Fatalf("Seek = %d, %v", pos, err)
		}
		rest, _ := io.ReadAll(f)
		if string(rest) != "cdef" {
			t.Errorf("after seek read %q", rest)
		}
	})

	t.Run("width scales offset", func(t *testing.T) {
		path := tempPath(t)
		writeFile(t, path, "abc", wide)

		f, _ := OpenWithConfig(path, In, wide)
		defer f.Close()

		pos, err := f.Seek(1, io.SeekStart)
		if err != nil || pos != 4 {
			t.Fatalf("Seek = %d, %v", pos, err)
		}
		rest, _ := io.ReadAll(f)
		if string(rest) != "bc" {
			t.Errorf("after seek read %q", rest)
		}
	})

	t.Run("variable width", func(t *testing.T) {
		path := tempPath(t)
		writeFile(t, path, "abc", utf16)

		f, _ := OpenWithConfig(path, In, utf16)
		defer f.Close()

		if _, err := f.Seek(1, io.SeekStart); !stderrors.Is(err, &errors.Error{Kind: errors.KindInvalidInput}) {
			t.Errorf("non-zero offset: got %v", err)
		}
		if pos, err := f.Seek(0, io.SeekEnd); err != nil || pos != 6 {
			t.Errorf("Seek(0, end) = %d, %v", pos, err)
		}
	})

	t.Run("current after read", func(t *testing.T) {
		path := tempPath(t)
		writeFile(t, path, "abcdef", nil)

		f, _ := Open(path, In)
		defer f.Close()

		buf := make([]byte, 2)
		_, _ = io.ReadFull(f, buf)
		pos, err := f.Seek(1, io.SeekCurrent)
		if err != nil || pos != 3 {
			t.Errorf("Seek(1, current) = %d, %v, want 3", pos, err)
		}
	})
}

func TestSync_ReadThenWrite(t *testing.T) {
	path := tempPath(t)
	writeFile(t, path, "abcdef", nil)

	f, err := Open(path, In|Out)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 2)
	if _, err := io.ReadFull(f, buf); err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("XY"); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	raw, _ := os.ReadFile(path)
	if string(raw) != "abXYef" {
		t.Errorf("content = %q, want abXYef", raw)
	}
}

func TestSync_WriteThenRead(t *testing.T) {
	path := tempPath(t)
	writeFile(t, path, "", nil)

	f, err := Open(path, In|Out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	_, _ = f.WriteString("hello")
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(f)
	if string(data) != "hello" {
		t.Errorf("read %q", data)
	}
}

func TestAppendAndAte(t *testing.T) {
	path := tempPath(t)
	writeFile(t, path, "one", nil)

	f, err := Open(path, App)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("+two")
	_ = f.Close()

	f, err = Open(path, In|Out|Ate)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Read(make([]byte, 4)); err != io.EOF {
		t.Errorf("read at end: %v, want io.EOF", err)
	}
	_, _ = f.WriteString("+three")
	_ = f.Close()

	raw, _ := os.ReadFile(path)
	if string(raw) != "one+two+three" {
		t.Errorf("content = %q", raw)
	}
}

func TestClosedFile(t *testing.T) {
	var f File
	if f.IsOpen() {
		t.Fatal("zero File must be closed")
	}

	notOpen := &errors.Error{Kind: errors.KindNotOpen}
	if _, err := f.Read(make([]byte, 1)); !stderrors.Is(err, notOpen) {
		t.Errorf("Read: %v", err)
	}
	if _, err := f.Write([]byte("x")); !stderrors.Is(err, notOpen) {
		t.Errorf("Write: %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); !stderrors.Is(err, notOpen) {
		t.Errorf("Seek: %v", err)
	}
	if err := f.Close(); !stderrors.Is(err, notOpen) {
		t.Errorf("Close: %v", err)
	}
	if err := f.Sync(); err != nil {
		t.Errorf("Sync on a closed file: %v", err)
	}

	path := tempPath(t)
	if err := f.Open(path, Out); err != nil {
		t.Fatalf("zero File Open: %v", err)
	}
	if err := f.Open(path, Out); err == nil {
		t.Error("opening an open File must fail")
	}
	if !f.IsOpen() || f.Name() != path || f.Mode() != Out {
		t.Errorf("state after open: %v %q %s", f.IsOpen(), f.Name(), f.Mode())
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if f.IsOpen() {
		t.Error("closed File reports open")
	}
}

func TestOpen_Errors(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	missing := filepath.Join(t.TempDir(), "missing.txt")
	_, err := Open(missing, In)
	if !stderrors.Is(err, &errors.Error{Kind: errors.KindIO}) {
		t.Errorf("got %v, want io error", err)
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("cause must be kept: %v", err)
	}
	if logs.FilterMessage("open failed").Len() != 1 {
		t.Error("open failure must be logged")
	}

	if _, err := Open(missing, In|Trunc); !stderrors.Is(err, &errors.Error{Kind: errors.KindInvalidMode}) {
		t.Errorf("got %v, want invalid mode", err)
	}
}

func TestSwap(t *testing.T) {
	pa, pb := tempPath(t), tempPath(t)
	writeFile(t, pa, "a", nil)
	writeFile(t, pb, "b", nil)

	a, _ := Open(pa, In)
	var b File
	a.Swap(&b)

	if a.IsOpen() {
		t.Error("swapped-out File must be closed")
	}
	if c, _ := b.ReadByte(); c != 'a' {
		t.Errorf("read %q after swap", c)
	}
	_ = b.Close()
}
