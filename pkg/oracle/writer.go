package oracle

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/Veraticus/regexp-match/pkg/types"
)

// EncodeResult renders r as a single JSON document without a trailing newline.
func EncodeResult(r types.Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteResult writes r to w in one call so a reader never observes a
// document assembled from several writes.
func WriteResult(w io.Writer, r types.Result) error {
	data, err := EncodeResult(r)
	if err != nil {
		return &IOError{Op: "encode result", Err: err}
	}

	n, err := w.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &IOError{Op: "write result", Err: err}
	}

	if f, ok := w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return &IOError{Op: "flush result", Err: err}
		}
	}
	return nil
}
