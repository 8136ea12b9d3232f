package csvimport

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Transcode returns a reader that yields r converted to UTF-8 from the named
// charset (as it appears in a Content-Type parameter). An empty name or any
// UTF-8 alias returns r unchanged.
func Transcode(r io.Reader, charset string) (io.Reader, error) {
	charset = strings.TrimSpace(charset)
	if charset == "" {
		return r, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCharset, charset)
	}
	if enc == unicode.UTF8 {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
