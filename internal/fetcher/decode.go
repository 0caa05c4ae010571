package fetcher

import (
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

const utf8Charset = "utf-8"

// minDetectConfidence is the chardet confidence below which a guess is ignored.
const minDetectConfidence = 10

// DecodeBody converts an HTML body to UTF-8. The charset comes from the
// Content-Type header, else the body is kept when it is already valid
// UTF-8, else it is guessed by chardet. It returns the charset used.
func DecodeBody(body []byte, contentType string) ([]byte, string) {
	if name := headerCharset(contentType); name != "" {
		if out, ok := decodeWith(body, name); ok {
			return out, strings.ToLower(name)
		}
	}

	if utf8.Valid(body) {
		return body, utf8Charset
	}

	result, err := chardet.NewHtmlDetector().DetectBest(body)
	if err == nil && result.Confidence >= minDetectConfidence {
		if out, ok := decodeWith(body, result.Charset); ok {
			return out, strings.ToLower(result.Charset)
		}
	}

	return body, ""
}

func headerCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

func decodeWith(body []byte, name string) ([]byte, bool) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, false
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return nil, false
	}
	return out, true
}
