package negotiation

import (
	"mime"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Default encodings. Request and response bodies fall back to ISO-8859-1,
// the legacy HTTP default. Multipart body parts fall back to UTF-8.
var (
	ISO88591 encoding.Encoding = charmap.ISO8859_1
	UTF8     encoding.Encoding = unicode.UTF8
)

// ContentType is a parsed Content-Type header value.
type ContentType struct {
	MediaType string            // lower-cased type/subtype, e.g. "text/plain"
	Params    map[string]string // parameter names are lower-cased
}

// Charset returns the charset parameter, or an empty string.
func (c ContentType) Charset() string {
	return c.Params["charset"]
}

// ParseContentType parses a Content-Type header value. It returns false when
// the value is empty or carries no media type. Malformed parameters are
// dropped while the media type is still reported.
func ParseContentType(value string) (ContentType, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ContentType{}, false
	}

	mediaType, params, err := mime.ParseMediaType(value)
	if err != nil && mediaType == "" {
		// Fall back to whatever precedes the first parameter.
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(value, ";", 2)[0]))
	}
	if mediaType == "" {
		return ContentType{}, false
	}
	if params == nil {
		params = map[string]string{}
	}
	return ContentType{MediaType: mediaType, Params: params}, true
}

// Charset resolves an IANA charset name to an encoding. Empty, unknown and
// unsupported names resolve to fallback.
func Charset(name string, fallback encoding.Encoding) encoding.Encoding {
	name = strings.Trim(strings.TrimSpace(name), `"`)
	if name == "" {
		return fallback
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return fallback
	}
	return enc
}

// CharsetOf resolves the charset declared by a Content-Type header value,
// or fallback when the header is absent or declares none.
func CharsetOf(contentType string, fallback encoding.Encoding) encoding.Encoding {
	ct, ok := ParseContentType(contentType)
	if !ok {
		return fallback
	}
	return Charset(ct.Charset(), fallback)
}

// Decode converts content in the given encoding to a Go string.
func Decode(content []byte, enc encoding.Encoding) (string, error) {
	out, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Encode converts s to the given encoding. Runes the encoding cannot
// represent produce an error.
func Encode(s string, enc encoding.Encoding) ([]byte, error) {
	return enc.NewEncoder().Bytes([]byte(s))
}
