package archive

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// Policy controls how undecodable bytes are treated.
type Policy int

const (
	// Strict rejects a decoding that produced any replacement character.
	Strict Policy = iota
	// Ignore drops replacement characters.
	Ignore
	// Replace keeps replacement characters.
	Replace
)

// Decoding is one step of the name recovery chain.
type Decoding struct {
	Name     string
	Encoding encoding.Encoding
	Policy   Policy
}

// Decode applies the decoding to raw. It reports false when the policy
// rejects the result.
func (d Decoding) Decode(raw []byte) (string, bool) {
	out, err := d.Encoding.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	s := string(out)

	switch d.Policy {
	case Strict:
		if strings.ContainsRune(s, utf8.RuneError) {
			return "", false
		}
	case Ignore:
		s = strings.ReplaceAll(s, string(utf8.RuneError), "")
		if s == "" && len(raw) > 0 {
			return "", false
		}
	}
	return s, true
}

// RecoveryChain is tried in order by RecoverName.
var RecoveryChain = []Decoding{
	{Name: "utf-8", Encoding: unicode.UTF8, Policy: Strict},
	{Name: "cp949", Encoding: korean.EUCKR, Policy: Ignore},
	{Name: "euc-kr", Encoding: lookup("euc-kr", korean.EUCKR), Policy: Ignore},
	{Name: "cp437", Encoding: charmap.CodePage437, Policy: Replace},
}

func lookup(name string, fallback encoding.Encoding) encoding.Encoding {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return fallback
	}
	return enc
}

// RecoverName decodes a member name whose encoding is unknown. The first
// decoding of the chain that succeeds wins; if every step fails the name is
// read as CP437 with replacement characters.
func RecoverName(raw []byte) string {
	for _, d := range RecoveryChain {
		if s, ok := d.Decode(raw); ok {
			return s
		}
	}
	s, _ := charmap.CodePage437.NewDecoder().Bytes(raw)
	return string(s)
}

// memberName returns the display name of a raw member name. Valid UTF-8 is
// kept; anything else is read in the zip default code page, CP437.
func memberName(raw string) string {
	if utf8.ValidString(raw) {
		return raw
	}
	s, err := charmap.CodePage437.NewDecoder().String(raw)
	if err != nil {
		return raw
	}
	return s
}

// NormalizeName converts name to Unicode NFC.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// isMetadata reports whether a member is archiver metadata that is never
// extracted.
func isMetadata(name string) bool {
	return strings.HasPrefix(name, "__MACOSX") || strings.HasPrefix(name, ".")
}

// CommonRoot returns the single top-level segment shared by every
// non-metadata member, if there is exactly one.
func CommonRoot(names []string) (string, bool) {
	roots := make(map[string]struct{})
	for _, name := range names {
		if isMetadata(name) {
			continue
		}
		top, _, _ := strings.Cut(name, "/")
		if top == "" {
			continue
		}
		roots[top] = struct{}{}
		if len(roots) > 1 {
			return "", false
		}
	}
	for root := range roots {
		return root, true
	}
	return "", false
}
