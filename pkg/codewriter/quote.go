package codewriter

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"cytree/writer-go/pkg/ast"
)

// pickQuote follows the literal convention of the target syntax: single
// quotes unless the text contains a single quote and no double quote.
func pickQuote(s string) byte {
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		return '"'
	}
	return '\''
}

func writeCommonEscape(b *strings.Builder, c byte, quote byte) bool {
	switch c {
	case '\\':
		b.WriteString(`\\`)
	case '\n':
		b.WriteString(`\n`)
	case '\r':
		b.WriteString(`\r`)
	case '\t':
		b.WriteString(`\t`)
	case quote:
		b.WriteByte('\\')
		b.WriteByte(quote)
	default:
		return false
	}
	return true
}

// textLiteral quotes a text string. Text that is not valid UTF-8 has no
// escaped form that reads back as the same string.
func textLiteral(kind ast.NodeType, s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", unsupported(kind, "text literal with invalid UTF-8")
	}
	return quoteText(s), nil
}

// cName quotes an include file or C linkage name. These are always written
// in double quotes, with the same escapes as text literals.
func cName(kind ast.NodeType, s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", unsupported(kind, "C name with invalid UTF-8")
	}
	return quoteTextWith(s, '"'), nil
}

// quoteText quotes valid UTF-8 text. Printable runes are kept; everything
// else is escaped.
func quoteText(s string) string {
	return quoteTextWith(s, pickQuote(s))
}

func quoteTextWith(s string, quote byte) string {
	var b strings.Builder
	b.WriteByte(quote)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r < utf8.RuneSelf && writeCommonEscape(&b, byte(r), quote):
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
		i += size
	}
	b.WriteByte(quote)
	return b.String()
}

// quoteBytes quotes raw bytes; anything outside printable ASCII is written
// as a hex escape.
func quoteBytes(s string) string {
	quote := pickQuote(s)
	var b strings.Builder
	b.WriteByte(quote)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case writeCommonEscape(&b, c, quote):
		case c >= 0x20 && c < 0x7f:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, `\x%02x`, c)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
