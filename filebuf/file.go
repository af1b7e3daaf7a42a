package filebuf

import (
	stderrors "errors"
	"io"
	"os"
	"unicode/utf8"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/wippyai/variant/errors"
)

// putbackMax bounds the bytes kept before the read position for push-back.
const putbackMax = 4

// File is a buffered, transcoding stream over an operating system file.
// The zero File is closed and uses DefaultConfig.
type File struct {
	file    *os.File
	enc     encoding.Encoding
	decoder transform.Transformer
	encoder transform.Transformer
	name    string

	ext     []byte // external bytes read ahead: ext[extNext:extEnd] not yet decoded
	in      []byte // decoded UTF-8: in[r:w] not yet returned
	out     []byte // UTF-8 written but not yet encoded
	extNext int
	extEnd  int
	r, w    int

	bufSize int
	width   int
	mode    Mode
	cur     Mode // In while reading, Out while writing
	eof     bool
}

// New returns a closed File using cfg. A nil cfg means DefaultConfig.
func New(cfg *Config) *File {
	f := &File{}
	f.configure(cfg)
	return f
}

// Open opens path with mode and no conversion.
func Open(path string, mode Mode) (*File, error) {
	return OpenWithConfig(path, mode, nil)
}

// OpenWithConfig opens path with mode and cfg.
func OpenWithConfig(path string, mode Mode, cfg *Config) (*File, error) {
	f := New(cfg)
	if err := f.Open(path, mode); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) configure(cfg *Config) {
	c := cfg.normalized()
	f.enc = c.Encoding
	f.bufSize = c.BufferSize
	f.width = c.Width
	if f.enc != nil {
		f.decoder = f.enc.NewDecoder()
		f.encoder = f.enc.NewEncoder()
	}
}

// Open opens path on a closed File.
func (f *File) Open(path string, mode Mode) error {
	if f.file != nil {
		return errors.InvalidInput(errors.PhaseStream, "open: file is already open")
	}
	flag, err := mode.flag()
	if err != nil {
		return err
	}

	osf, err := os.OpenFile(path, flag, 0o666)
	if err != nil {
		Logger().Debug("open failed", zap.String("path", path), zap.Stringer("mode", mode), zap.Error(err))
		return errors.IO("open", err)
	}
	return f.attach(osf, path, mode)
}

// OpenFD wraps an already open descriptor. name is used in diagnostics.
func (f *File) OpenFD(fd uintptr, name string, mode Mode) error {
	if f.file != nil {
		return errors.InvalidInput(errors.PhaseStream, "open: file is already open")
	}
	if _, err := mode.flag(); err != nil {
		return err
	}
	osf := os.NewFile(fd, name)
	if osf == nil {
		return errors.IO("open", os.ErrInvalid)
	}
	return f.attach(osf, name, mode)
}

func (f *File) attach(osf *os.File, name string, mode Mode) error {
	if f.bufSize == 0 {
		f.configure(nil)
	}
	if mode&Ate != 0 {
		if _, err := osf.Seek(0, io.SeekEnd); err != nil {
			_ = osf.Close()
			return errors.IO("seek", err)
		}
	}
	f.file = osf
	f.name = name
	f.mode = mode
	f.resetBuffers()
	return nil
}

// IsOpen reports whether the File has an open file.
func (f *File) IsOpen() bool {
	return f.file != nil
}

// Name returns the path or descriptor name given at open.
func (f *File) Name() string {
	return f.name
}

// Mode returns the open mode.
func (f *File) Mode() Mode {
	return f.mode
}

// Read reads decoded UTF-8 into p. It returns io.EOF at the end of the file.
func (f *File) Read(p []byte) (int, error) {
	if f.file == nil {
		return 0, errors.NotOpen("read")
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := f.readMode(); err != nil {
		return 0, err
	}
	if f.r == f.w {
		if err := f.underflow(); err != nil {
			return 0, err
		}
	}
	n := copy(p, f.in[f.r:f.w])
	f.r += n
	return n, nil
}

// ReadByte reads one byte of decoded UTF-8.
func (f *File) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := f.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// UnreadByte steps back over the last byte read.
func (f *File) UnreadByte() error {
	if f.file == nil {
		return errors.NotOpen("unread")
	}
	if f.cur != In || f.r == 0 {
		return errors.InvalidInput(errors.PhaseStream, "unread: no byte to step back over")
	}
	f.r--
	return nil
}

// Unread pushes c back in front of the read position. Unless the file is open
// for writing, c must equal the byte that was read there.
func (f *File) Unread(c byte) error {
	if f.file == nil {
		return errors.NotOpen("unread")
	}
	if f.cur != In || f.r == 0 {
		return errors.InvalidInput(errors.PhaseStream, "unread: no room before the read position")
	}
	if f.mode&Out == 0 && f.in[f.r-1] != c {
		return errors.InvalidInput(errors.PhaseStream, "unread: byte differs from the one read and the file is read-only")
	}
	f.r--
	f.in[f.r] = c
	return nil
}

// Write buffers UTF-8 from p and encodes it to the file once the buffer fills.
func (f *File) Write(p []byte) (int, error) {
	if f.file == nil {
		return 0, errors.NotOpen("write")
	}
	if err := f.writeMode(); err != nil {
		return 0, err
	}
	f.out = append(f.out, p...)
	if len(f.out) >= f.bufSize {
		if err := f.flush(false); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// WriteString is Write for a string.
func (f *File) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

// Seek moves to offset characters relative to whence (io.SeekStart,
// io.SeekCurrent, io.SeekEnd) and returns the new byte position in the file.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.file == nil {
		return -1, errors.NotOpen("seek")
	}
	if f.width <= 0 && offset != 0 {
		return -1, errors.InvalidInput(errors.PhaseStream, "seek: variable-width encoding only allows offset 0")
	}
	if err := f.Sync(); err != nil {
		return -1, err
	}

	pos, err := f.file.Seek(int64(max(f.width, 0))*offset, whence)
	if err != nil {
		Logger().Debug("seek failed", zap.String("name", f.name), zap.Int64("offset", offset), zap.Error(err))
		return -1, errors.IO("seek", err)
	}
	f.resetBuffers()
	return pos, nil
}

// Sync writes pending output. While reading, it moves the file position back
// to the logical read position and drops the read-ahead.
func (f *File) Sync() error {
	if f.file == nil {
		return nil
	}

	switch f.cur {
	case Out:
		if err := f.flush(true); err != nil {
			return err
		}
		if len(f.out) > 0 {
			return errors.IO("sync", io.ErrShortWrite)
		}
		if f.encoder != nil {
			f.encoder.Reset()
		}
	case In:
		back, err := f.readAhead()
		if err != nil {
			return err
		}
		if back > 0 {
			if _, err := f.file.Seek(-back, io.SeekCurrent); err != nil {
				return errors.IO("sync", err)
			}
		}
		f.resetBuffers()
	}
	return nil
}

// Close flushes pending output and closes the file.
func (f *File) Close() error {
	if f.file == nil {
		return errors.NotOpen("close")
	}

	err := f.Sync()
	if cerr := f.file.Close(); cerr != nil {
		err = multierr.Append(err, errors.IO("close", cerr))
	}
	if err != nil {
		Logger().Debug("close failed", zap.String("name", f.name), zap.Error(err))
	}

	f.file = nil
	f.name = ""
	f.mode = 0
	f.resetBuffers()
	f.out = f.out[:0]
	return err
}

// Swap exchanges the state of f and o, open files included.
func (f *File) Swap(o *File) {
	*f, *o = *o, *f
}

func (f *File) resetBuffers() {
	f.cur = 0
	f.r, f.w = 0, 0
	f.extNext, f.extEnd = 0, 0
	f.eof = false
	if f.decoder != nil {
		f.decoder.Reset()
	}
}

func (f *File) readMode() error {
	if f.cur == In {
		return nil
	}
	if f.cur == Out {
		if err := f.Sync(); err != nil {
			return err
		}
	}
	f.resetBuffers()
	if len(f.in) < f.bufSize {
		f.in = make([]byte, f.bufSize)
	}
	if f.decoder != nil && len(f.ext) < f.bufSize {
		f.ext = make([]byte, f.bufSize)
	}
	f.cur = In
	return nil
}

func (f *File) writeMode() error {
	if f.cur == Out {
		return nil
	}
	if f.cur == In {
		if err := f.Sync(); err != nil {
			return err
		}
	}
	if f.encoder != nil && len(f.ext) < f.bufSize {
		f.ext = make([]byte, f.bufSize)
	}
	f.cur = Out
	return nil
}

// underflow refills in, keeping up to putbackMax bytes before the read
// position.
func (f *File) underflow() error {
	keep := min(f.w/2, putbackMax)
	copy(f.in, f.in[f.w-keep:f.w])
	f.r, f.w = keep, keep

	if f.decoder == nil {
		n, err := f.file.Read(f.in[keep:])
		f.w += n
		switch {
		case n > 0:
			return nil
		case err == nil, stderrors.Is(err, io.EOF):
			return io.EOF
		default:
			return errors.IO("read", err)
		}
	}

	for {
		if f.extNext < f.extEnd || f.eof {
			nDst, nSrc, err := f.decoder.Transform(f.in[keep:], f.ext[f.extNext:f.extEnd], f.eof)
			f.extNext += nSrc
			f.w += nDst
			if nDst > 0 {
				return nil
			}
			switch {
			case err == nil, err == transform.ErrShortSrc:
			default:
				return errors.IO("decode", err)
			}
			if f.eof {
				return io.EOF
			}
		}

		copy(f.ext, f.ext[f.extNext:f.extEnd])
		f.extEnd -= f.extNext
		f.extNext = 0
		if f.extEnd == len(f.ext) {
			return errors.IO("decode", transform.ErrShortSrc)
		}

		n, err := f.file.Read(f.ext[f.extEnd:])
		f.extEnd += n
		if stderrors.Is(err, io.EOF) || (err == nil && n == 0) {
			f.eof = true
		} else if err != nil {
			return errors.IO("read", err)
		}
	}
}

// readAhead returns how many external bytes were read past the logical read
// position.
func (f *File) readAhead() (int64, error) {
	pending := f.in[f.r:f.w]
	if f.decoder == nil {
		return int64(len(pending)), nil
	}

	back := int64(f.extEnd - f.extNext)
	if len(pending) == 0 {
		return back, nil
	}
	if f.width > 0 {
		return back + int64(f.width*utf8.RuneCount(pending)), nil
	}
	encoded, _, err := transform.Bytes(f.enc.NewEncoder(), pending)
	if err != nil {
		return 0, errors.IO("sync", err)
	}
	return back + int64(len(encoded)), nil
}

// flush encodes and writes buffered output. Unless final, an incomplete
// trailing UTF-8 sequence stays buffered.
func (f *File) flush(final bool) error {
	if len(f.out) == 0 {
		return nil
	}

	if f.encoder == nil {
		_, err := f.file.Write(f.out)
		f.out = f.out[:0]
		if err != nil {
			return errors.IO("write", err)
		}
		return nil
	}

	src := f.out
	for len(src) > 0 {
		nDst, nSrc, err := f.encoder.Transform(f.ext, src, final)
		if nDst > 0 {
			if _, werr := f.file.Write(f.ext[:nDst]); werr != nil {
				return errors.IO("write", werr)
			}
		}
		src = src[nSrc:]
		if err == transform.ErrShortDst && (nDst > 0 || nSrc > 0) {
			continue
		}
		if err == transform.ErrShortSrc {
			break
		}
		if err != nil {
			return errors.IO("encode", err)
		}
		if nSrc == 0 {
			break
		}
	}
	f.out = append(f.out[:0], src...)
	return nil
}
