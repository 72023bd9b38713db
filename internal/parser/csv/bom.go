package csv

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// skipBOM drops a leading byte-order mark. A UTF-16 BOM switches decoding to
// UTF-16 so spreadsheet exports still read as UTF-8 text; input without a BOM
// passes through byte for byte.
func skipBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
}
