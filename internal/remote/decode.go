package remote

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/korean"
)

// DecodeText converts a listing body to a string.
//
// A charset declared by the Content-Type header or announced by a BOM is
// trusted. Otherwise a body that is valid UTF-8 is used as-is, and anything
// else is read as CP949, the service's legacy encoding.
func DecodeText(body []byte, contentType string) string {
	if enc, _, certain := charset.DetermineEncoding(body, contentType); certain {
		if out, err := enc.NewDecoder().Bytes(body); err == nil {
			return strings.TrimPrefix(string(out), "\uFEFF")
		}
	}

	if utf8.Valid(body) {
		return string(body)
	}

	out, err := korean.EUCKR.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(out)
}
