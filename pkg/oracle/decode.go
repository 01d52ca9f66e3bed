package oracle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/Veraticus/regexp-match/pkg/types"
)

var (
	errInvalidUTF8 = errors.New("input is not valid UTF-8")
	errTrailing    = errors.New("trailing characters after the request object")

	errLoneSurrogate = errors.New("lone surrogate in escape")
)

// Decode parses a request document. The document must be a single JSON
// object carrying string fields "pattern" and "text"; unknown fields are
// ignored. Any deviation yields a *DecodeError.
func Decode(data []byte) (types.Request, error) {
	req, err := decodeRequest(data)
	if err != nil {
		return types.Request{}, &DecodeError{Err: err}
	}
	return req, nil
}

func decodeRequest(data []byte) (types.Request, error) {
	if !utf8.Valid(data) {
		return types.Request{}, errInvalidUTF8
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return types.Request{}, unexpectedEOF(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return types.Request{}, fmt.Errorf("expected a JSON object, found %s", describeToken(tok))
	}

	var pattern, text *string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return types.Request{}, unexpectedEOF(err)
		}
		key, _ := tok.(string)

		switch key {
		case "pattern":
			if pattern != nil {
				return types.Request{}, errors.New("duplicate field `pattern`")
			}
			if pattern, err = decodeString(dec, key); err != nil {
				return types.Request{}, err
			}
		case "text":
			if text != nil {
				return types.Request{}, errors.New("duplicate field `text`")
			}
			if text, err = decodeString(dec, key); err != nil {
				return types.Request{}, err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return types.Request{}, unexpectedEOF(err)
			}
		}
	}

	// Closing brace of the object.
	if _, err := dec.Token(); err != nil {
		return types.Request{}, unexpectedEOF(err)
	}

	if pattern == nil {
		return types.Request{}, errors.New("missing field `pattern`")
	}
	if text == nil {
		return types.Request{}, errors.New("missing field `text`")
	}

	switch _, err := dec.Token(); {
	case err == nil:
		return types.Request{}, errTrailing
	case !errors.Is(err, io.EOF):
		return types.Request{}, err
	}

	return types.Request{
		Pattern: types.UntrustedPattern(*pattern),
		Text:    types.UntrustedText(*text),
	}, nil
}

func decodeString(dec *json.Decoder, field string) (*string, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, unexpectedEOF(err)
	}

	// encoding/json turns unpaired surrogate escapes into U+FFFD.
	if err := checkSurrogates(raw); err != nil {
		return nil, fmt.Errorf("field `%s`: %w", field, err)
	}

	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("field `%s`: %w", field, err)
	}
	if s == nil {
		return nil, fmt.Errorf("field `%s`: expected a string, found null", field)
	}
	return s, nil
}

// checkSurrogates rejects \u escapes in a string literal that do not form a
// high+low UTF-16 pair. lit has already been validated as JSON.
func checkSurrogates(lit []byte) error {
	for i := 0; i < len(lit); i++ {
		if lit[i] != '\\' {
			continue
		}
		i++
		if i >= len(lit) || lit[i] != 'u' {
			continue
		}
		r := hexRune(lit, i+1)
		if r < 0 {
			continue
		}
		i += 4
		if r < 0xD800 || r > 0xDFFF {
			continue
		}
		if r < 0xDC00 && i+6 < len(lit) && lit[i+1] == '\\' && lit[i+2] == 'u' {
			if lo := hexRune(lit, i+3); lo >= 0xDC00 && lo <= 0xDFFF {
				i += 6
				continue
			}
		}
		return errLoneSurrogate
	}
	return nil
}

// hexRune parses the four hex digits at lit[at:], or returns -1.
func hexRune(lit []byte, at int) rune {
	if at+4 > len(lit) {
		return -1
	}
	n, err := strconv.ParseUint(string(lit[at:at+4]), 16, 16)
	if err != nil {
		return -1
	}
	return rune(n)
}

func describeToken(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '[' {
			return "an array"
		}
		return fmt.Sprintf("%q", v.String())
	case string:
		return "a string"
	case float64:
		return "a number"
	case bool:
		return "a boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// unexpectedEOF reports running out of input mid-document as such, rather
// than as a plain EOF.
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
