package store

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/annotkit/annotkit/internal/gff"
)

// Attributes are stored as a single text column in the familiar
// key=v1,v2;key2=v3 layout, with keys and values percent-encoded so the
// separators stay unambiguous.

func encodeAttributes(attrs *gff.Attributes) string {
	if attrs == nil || attrs.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for i, key := range attrs.Keys() {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		for j, v := range attrs.Get(key) {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

func decodeAttributes(text string) (*gff.Attributes, error) {
	attrs := gff.NewAttributes()
	if text == "" {
		return attrs, nil
	}
	for _, pair := range strings.Split(text, ";") {
		eq := strings.IndexByte(pair, '=')
		if eq < 0 {
			return nil, fmt.Errorf("malformed stored attribute %q", pair)
		}
		key, err := url.QueryUnescape(pair[:eq])
		if err != nil {
			return nil, fmt.Errorf("decode stored attribute key %q: %w", pair[:eq], err)
		}
		for _, raw := range strings.Split(pair[eq+1:], ",") {
			v, err := url.QueryUnescape(raw)
			if err != nil {
				return nil, fmt.Errorf("decode stored attribute value %q: %w", raw, err)
			}
			attrs.Add(key, v)
		}
	}
	return attrs, nil
}
