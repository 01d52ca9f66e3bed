package oracle

import (
	"io"
)

// MaxInputBytes is the most the oracle will read from its input channel.
const MaxInputBytes int64 = 1 << 20

// ReadBounded reads src until EOF or until limit bytes have been consumed,
// whichever comes first. Bytes past the limit are left unread. Only a failure
// of the stream itself is an error.
func ReadBounded(src io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(src, limit))
	if err != nil {
		return nil, &IOError{Op: "read input", Err: err}
	}
	return data, nil
}
