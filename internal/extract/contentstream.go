package extract

import (
	"net/url"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// TextRuns scans a page content stream and returns the raw bytes shown by
// each Tj, TJ, ' and " operator. Inline image data is skipped.
func TextRuns(content []byte) [][]byte {
	s := &scanner{buf: content}
	var (
		runs    [][]byte
		pending [][]byte
	)
	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		switch tok.kind {
		case tokString:
			pending = append(pending, tok.value)
		case tokOperator:
			switch string(tok.value) {
			case "Tj", "TJ", "'", "\"":
				if len(pending) > 0 {
					runs = append(runs, joinBytes(pending))
				}
			case "ID":
				s.skipInlineImage()
			}
			pending = pending[:0]
		}
	}
	return runs
}

func joinBytes(parts [][]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

type tokenKind int

const (
	tokOther tokenKind = iota
	tokString
	tokOperator
)

type token struct {
	kind  tokenKind
	value []byte
}

type scanner struct {
	buf []byte
	pos int
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *scanner) next() (token, bool) {
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		switch {
		case isSpace(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.buf) && s.buf[s.pos] != '\n' && s.buf[s.pos] != '\r' {
				s.pos++
			}
		case c == '(':
			s.pos++
			return token{kind: tokString, value: s.literal()}, true
		case c == '<':
			if s.pos+1 < len(s.buf) && s.buf[s.pos+1] == '<' {
				s.pos += 2
				return token{kind: tokOther}, true
			}
			s.pos++
			return token{kind: tokString, value: s.hex()}, true
		case c == '>':
			s.pos++
			if s.pos < len(s.buf) && s.buf[s.pos] == '>' {
				s.pos++
			}
			return token{kind: tokOther}, true
		case c == '[', c == ']', c == '{', c == '}', c == ')':
			s.pos++
			return token{kind: tokOther}, true
		case c == '/':
			s.pos++
			s.word()
			return token{kind: tokOther}, true
		default:
			w := s.word()
			if len(w) == 0 {
				s.pos++
				continue
			}
			if isOperator(w) {
				return token{kind: tokOperator, value: w}, true
			}
			return token{kind: tokOther}, true
		}
	}
	return token{}, false
}

func (s *scanner) word() []byte {
	start := s.pos
	for s.pos < len(s.buf) && !isSpace(s.buf[s.pos]) && !isDelim(s.buf[s.pos]) {
		s.pos++
	}
	return s.buf[start:s.pos]
}

func isOperator(w []byte) bool {
	c := w[0]
	if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' {
		return false
	}
	return string(w) != "true" && string(w) != "false" && string(w) != "null"
}

// literal reads a (...) string; the opening paren is already consumed.
func (s *scanner) literal() []byte {
	var out []byte
	depth := 1
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(s.buf) {
				return out
			}
			e := s.buf[s.pos]
			s.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if s.pos < len(s.buf) && s.buf[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.buf) && s.buf[s.pos] >= '0' && s.buf[s.pos] <= '7'; i++ {
						v = v*8 + int(s.buf[s.pos]-'0')
						s.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

// hex reads a <...> string; the opening bracket is already consumed.
func (s *scanner) hex() []byte {
	var (
		out  []byte
		hi   byte
		half bool
	)
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		s.pos++
		if c == '>' {
			break
		}
		v, ok := hexVal(c)
		if !ok {
			continue
		}
		if half {
			out = append(out, hi<<4|v)
			half = false
		} else {
			hi, half = v, true
		}
	}
	if half {
		out = append(out, hi<<4)
	}
	return out
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// skipInlineImage advances past binary image data up to the EI operator.
func (s *scanner) skipInlineImage() {
	for s.pos+2 < len(s.buf) {
		if isSpace(s.buf[s.pos]) && s.buf[s.pos+1] == 'E' && s.buf[s.pos+2] == 'I' &&
			(s.pos+3 == len(s.buf) || isSpace(s.buf[s.pos+3])) {
			s.pos += 3
			return
		}
		s.pos++
	}
	s.pos = len(s.buf)
}

// decodeRun converts shown bytes to text. UTF-16BE is honored when marked by
// a byte-order mark; anything else is read as single-byte text. Runs that
// carry percent escapes are unescaped, keeping the raw run if that fails.
func decodeRun(raw []byte) string {
	var text string
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		units := make([]uint16, 0, (len(raw)-2)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		text = string(utf16.Decode(units))
	} else {
		var b strings.Builder
		b.Grow(len(raw))
		for _, c := range raw {
			if c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
				continue
			}
			b.WriteRune(rune(c))
		}
		text = b.String()
	}
	if strings.Contains(text, "%") {
		if decoded, err := url.PathUnescape(text); err == nil && utf8.ValidString(decoded) {
			return decoded
		}
	}
	return text
}
