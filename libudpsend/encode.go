package udpsend

import (
	"errors"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// DefaultBufLen is the size of the send buffer the encoded payload must fit in.
const DefaultBufLen = 512

// DefaultData is sent when no -data was given.
const DefaultData = "12"

// Encoder converts payload text to UTF-8 bytes. Invalid input is rejected, never replaced,
// and output not fitting into the buffer is an error, never truncated.
type Encoder struct {
	// BufLen is the output buffer size; 0 means DefaultBufLen
	BufLen int
}

// Encode returns the UTF-8 bytes of text.
func (e Encoder) Encode(text string) ([]byte, error) {
	bufLen := e.BufLen
	if bufLen <= 0 {
		bufLen = DefaultBufLen
	}
	buf := make([]byte, bufLen)
	n, _, err := encoding.UTF8Validator.Transform(buf, []byte(text), true)
	switch {
	case err == nil:
		return buf[:n], nil
	case errors.Is(err, encoding.ErrInvalidUTF8):
		return nil, &EncodingError{Code: CodeNoUnicodeTranslation, Err: err}
	case errors.Is(err, transform.ErrShortDst):
		return nil, &EncodingError{Code: CodeInsufficientBuffer, Err: err}
	default:
		return nil, &EncodingError{Code: CodeNoUnicodeTranslation, Err: err}
	}
}
