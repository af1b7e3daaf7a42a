// Package filebuf provides a buffered file stream that converts between an
// external character encoding on disk and UTF-8 in memory.
//
// Reads decode the file's encoding into UTF-8; writes encode UTF-8 into it.
// With no encoding configured the bytes pass through unchanged.
//
//	f, err := filebuf.OpenWithConfig("notes.txt", filebuf.In, &filebuf.Config{
//	    Encoding: charmap.ISO8859_1,
//	    Width:    1,
//	})
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	data, err := io.ReadAll(f)
//
// # Modes
//
// Open modes combine like fopen modes:
//
//	Out, Out|Trunc      "w"   write, create, truncate
//	App, Out|App        "a"   append, create
//	In                  "r"   read
//	In|Out              "r+"  read and write
//	In|Out|Trunc        "w+"  read and write, create, truncate
//	In|App, In|Out|App  "a+"  read and append, create
//
// Binary may be added to any of them and changes nothing. Ate seeks to the end
// right after opening. Other combinations are rejected.
//
// # Push-back
//
// After a read, up to four bytes before the read position stay buffered so
// UnreadByte and Unread can step back over them.
//
// # Seeking
//
// Seek offsets count characters and are scaled by the configured width of the
// external encoding. Variable-width encodings only allow offset 0, that is a
// jump to the start, the current position or the end.
//
// A File is not safe for concurrent use.
package filebuf
