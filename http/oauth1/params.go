package oauth1

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

type param struct {
	Key   string
	Value string
}

// params is the ordered protocol parameter set. Insertion order is preserved
// into the rendered header; the base string sorts its own encoded copy.
type params []param

func (ps params) add(key, value string) params {
	return append(ps, param{Key: key, Value: value})
}

// header renders the parameter set as an OAuth Authorization header value:
// each value percent-encoded and double-quoted, pairs comma-space separated.
func (ps params) header() string {
	var b strings.Builder
	b.WriteString("OAuth ")
	for i, p := range ps {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Key)
		b.WriteString(`="`)
		b.WriteString(encode(p.Value))
		b.WriteString(`"`)
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

func isUnreserved(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z') ||
		('0' <= c && c <= '9') ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

// encode percent-encodes s per [RFC 5849 Section 3.6]: unreserved characters
// pass through, every other byte becomes %XX with uppercase hex digits. This
// is stricter than url.QueryEscape, which leaves characters like '*' alone
// and encodes spaces as '+'.
//
// [RFC 5849 Section 3.6]: https://www.rfc-editor.org/rfc/rfc5849#section-3.6
func encode(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !isUnreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0x0f])
		}
	}
	return b.String()
}

// decodeFormBody recovers individual key/value pairs from a form-encoded
// body string. It is the exact inverse of the encoding applied when the body
// was serialized, so signing a pre-serialized string body and signing the
// structured values it came from produce identical base strings. Repeated
// keys (array-valued fields) expand into repeated pairs.
func decodeFormBody(body string) ([]param, error) {
	if body == "" {
		return nil, nil
	}
	values, err := url.ParseQuery(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	pairs := make([]param, 0, len(values))
	for k, vs := range values {
		for _, v := range vs {
			pairs = append(pairs, param{Key: k, Value: v})
		}
	}
	return pairs, nil
}

// baseString assembles the signature base string per [RFC 5849 Section
// 3.4.1]: the uppercased method, the base URI, and the combined parameter
// collection, each percent-encoded and joined with '&'. Parameters are
// sorted by encoded key, then by encoded value for repeated keys.
//
// [RFC 5849 Section 3.4.1]: https://www.rfc-editor.org/rfc/rfc5849#section-3.4.1
func baseString(method string, u *url.URL, pairs []param) string {
	encoded := make([]param, len(pairs))
	for i, p := range pairs {
		encoded[i] = param{Key: encode(p.Key), Value: encode(p.Value)}
	}
	sort.Slice(encoded, func(i, j int) bool {
		if encoded[i].Key != encoded[j].Key {
			return encoded[i].Key < encoded[j].Key
		}
		return encoded[i].Value < encoded[j].Value
	})

	var ps strings.Builder
	for i, p := range encoded {
		if i > 0 {
			ps.WriteByte('&')
		}
		ps.WriteString(p.Key)
		ps.WriteByte('=')
		ps.WriteString(p.Value)
	}

	var b strings.Builder
	b.WriteString(strings.ToUpper(method))
	b.WriteByte('&')
	b.WriteString(encode(baseURI(u)))
	b.WriteByte('&')
	b.WriteString(encode(ps.String()))
	return b.String()
}

// baseURI is scheme://host/path with no query or fragment. Scheme and host
// are lowercased and default ports dropped, per RFC 5849 Section 3.4.1.2.
func baseURI(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}
	return scheme + "://" + host + u.EscapedPath()
}
