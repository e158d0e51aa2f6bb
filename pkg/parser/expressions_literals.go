package parser

import (
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"cytree/writer-go/pkg/ast"
)

// parseStringLiteral maps a string node to a text, unicode or bytes literal
// depending on its prefix. Raw and formatted strings are not supported.
func parseStringLiteral(node *sitter.Node, source []byte) (ast.Expression, error) {
	text := sliceContent(node, source)
	split := strings.IndexAny(text, `'"`)
	if split < 0 {
		return nil, errorAt(node, "malformed string literal")
	}
	prefix := strings.ToLower(text[:split])
	body := text[split:]

	quote := body[:1]
	if strings.HasPrefix(body, strings.Repeat(quote, 3)) && len(body) >= 6 {
		quote = strings.Repeat(quote, 3)
	}
	if !strings.HasSuffix(body, quote) || len(body) < 2*len(quote) {
		return nil, errorAt(node, "unterminated string literal")
	}
	body = body[len(quote) : len(body)-len(quote)]

	switch prefix {
	case "":
		value, err := unescape(body, false)
		if err != nil {
			return nil, errorAt(node, "%v", err)
		}
		return ast.NewStringLiteral(value), nil
	case "u":
		value, err := unescape(body, false)
		if err != nil {
			return nil, errorAt(node, "%v", err)
		}
		return ast.NewUnicodeLiteral(value), nil
	case "b":
		value, err := unescape(body, true)
		if err != nil {
			return nil, errorAt(node, "%v", err)
		}
		return ast.NewBytesLiteral(value), nil
	default:
		return nil, errorAt(node, "unsupported string prefix %q", prefix)
	}
}

// unescape resolves backslash escapes. With bytes, \xNN yields the raw byte
// rather than the code point.
func unescape(s string, bytes bool) (string, error) {
	var b strings.Builder
	for len(s) > 0 {
		if s[0] != '\\' {
			b.WriteByte(s[0])
			s = s[1:]
			continue
		}
		if len(s) > 1 {
			switch s[1] {
			case '\'', '"':
				b.WriteByte(s[1])
				s = s[2:]
				continue
			case '\n':
				s = s[2:]
				continue
			}
		}
		value, multibyte, tail, err := strconv.UnquoteChar(s, 0)
		if err != nil {
			return "", err
		}
		if bytes || (!multibyte && value < 0x80) {
			if value > 0xff {
				return "", strconv.ErrSyntax
			}
			b.WriteByte(byte(value))
		} else {
			b.WriteRune(value)
		}
		s = tail
	}
	return b.String(), nil
}
