package cookies

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/aamyot/molecule/pkg/api"
)

// ErrMalformed is returned for a Cookie header that is not a list of
// name=value pairs.
var ErrMalformed = errors.New("malformed cookie header")

// Parse parses a Cookie request header. Pairs are separated by ";" and
// empty pairs are ignored. Quoted values are unquoted. A later pair
// replaces an earlier one with the same name when added to a request.
func Parse(header string) ([]api.Cookie, error) {
	var out []api.Cookie
	for _, pair := range strings.Split(header, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !found || !validName(name) {
			return nil, fmt.Errorf("%w: %q", ErrMalformed, pair)
		}
		value = strings.TrimSpace(value)
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		out = append(out, api.NewCookie(name, value))
	}
	return out, nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !httpguts.IsTokenRune(r) {
			return false
		}
	}
	return true
}
