package ctype

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

const (
	whitespaceChars = " \t"
	delimiterChars  = `,:;(){}[]<>'"\?@=/`
)

var foldCaser = cases.Fold()

func isWhitespace(r rune) bool { return strings.ContainsRune(whitespaceChars, r) }
func isDelimiter(r rune) bool  { return strings.ContainsRune(delimiterChars, r) }

// parser walks a content-type header value one rune at a time. Every
// method returns ("", false) for a token that was not present, the
// same way the grammar it is grounded on returns None rather than an
// empty string — a parsed token can never itself be empty, so the
// empty string is safe to use as Go's absent-value sentinel.
type parser struct {
	runes []rune
	index int
}

func (p *parser) atEnd() bool { return p.index >= len(p.runes) }

func (p *parser) consumeWhitespace() {
	for !p.atEnd() && isWhitespace(p.runes[p.index]) {
		p.index++
	}
}

// parseToken consumes a run of characters that are neither whitespace,
// a grammar delimiter, nor one of disallowed, stopping at the first
// character that is.
func (p *parser) parseToken(disallowed string) (token string, ok bool) {
	var start = p.index
	for !p.atEnd() {
		var c = p.runes[p.index]
		if disallowed != "" && strings.ContainsRune(disallowed, c) {
			break
		}
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		p.index++
	}
	if start >= p.index {
		return "", false
	}
	return string(p.runes[start:p.index]), true
}

// parseQuoted parses a quoted value whose opening quote has already
// been consumed; it stops at the closing quote (consuming it) or at
// end of input, in which case expected is set to `"`.
func (p *parser) parseQuoted() (value string, ok bool, expected string) {
	var collected []rune
	var lastEscape bool
	for {
		if p.atEnd() {
			if lastEscape {
				collected = append(collected, '\\')
			}
			expected = `"`
			break
		}
		var c = p.runes[p.index]
		p.index++
		if lastEscape {
			lastEscape = false
			if c != '\\' && c != '"' {
				collected = append(collected, '\\')
			}
			collected = append(collected, c)
			continue
		}
		if c == '"' {
			break
		}
		if c == '\\' {
			lastEscape = true
			continue
		}
		collected = append(collected, c)
	}
	if len(collected) == 0 {
		return "", false, expected
	}
	return string(collected), true, expected
}

func (p *parser) parseTokenWithSpaceAround(disallowed string) (token string, ok bool) {
	p.consumeWhitespace()
	token, ok = p.parseToken(disallowed)
	p.consumeWhitespace()
	return
}

func (p *parser) parseTokenOrQuotedWithSpaceAround() (token string, ok bool, expected string) {
	p.consumeWhitespace()
	if !p.atEnd() {
		if p.runes[p.index] == '"' {
			p.index++
			token, ok, expected = p.parseQuoted()
		} else {
			token, ok = p.parseToken("")
		}
	}
	p.consumeWhitespace()
	return
}

// parseHead parses "type[/subtype[+suffix]][;]", returning expected
// non-empty if the head was malformed before reaching either end of
// input or a trailing ';'.
func (p *parser) parseHead() (typ, subType, suffix string, expected string) {
	for {
		if p.atEnd() {
			break
		}
		var ok bool
		typ, ok = p.parseTokenWithSpaceAround(";/")
		_ = ok
		if p.atEnd() {
			break
		}
		var c = p.runes[p.index]
		if c == ';' {
			p.index++
			break
		}
		if c != '/' {
			expected = ";/"
			break
		}
		p.index++
		subType, _ = p.parseTokenWithSpaceAround(";+")
		if p.atEnd() {
			break
		}
		c = p.runes[p.index]
		if c == ';' {
			p.index++
			break
		}
		if c != '+' {
			expected = ";+"
			break
		}
		p.index++
		suffix, _ = p.parseTokenWithSpaceAround(";")
		if p.atEnd() {
			break
		}
		c = p.runes[p.index]
		if c == ';' {
			p.index++
			break
		}
		expected = ";"
		break
	}
	return
}

// parseParameter parses one "key=value" or "key=\"quoted value\""
// pair, consuming a trailing ';' if present.
func (p *parser) parseParameter() (key, value string, keyOK, valueOK bool, expected string) {
	for {
		if p.atEnd() {
			break
		}
		key, keyOK = p.parseTokenWithSpaceAround(";=")
		if p.atEnd() {
			break
		}
		var c = p.runes[p.index]
		if c == ';' {
			p.index++
			break
		}
		if c != '=' {
			expected = ";="
			break
		}
		p.index++
		value, valueOK, expected = p.parseTokenOrQuotedWithSpaceAround()
		if p.atEnd() {
			break
		}
		if p.runes[p.index] == ';' {
			p.index++
			break
		}
		expected = ";"
		break
	}
	return
}

// ParsingError reports where and what a Parse call expected but did
// not find; a ContentType is still returned alongside it, populated
// with everything parsed before the error.
type ParsingError struct {
	String   string
	Index    int
	Expected string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("content-type: expected %q at index %d of %q", e.Expected, e.Index, e.String)
}

// ContentType is a parsed RFC 9110 media type: type "/" subtype ["+"
// suffix] followed by ";"-separated parameters. Type, SubType and
// Suffix are "" when absent — a parsed token is never itself empty, so
// the zero value doubles as the absent sentinel the grammar needs.
type ContentType struct {
	Type       string
	SubType    string
	Suffix     string
	Parameters *MultiValueMap
}

// Empty returns the content type carrying no information, the result
// of parsing a nil or empty header value.
func Empty() (ct *ContentType) { return &ContentType{} }

// GetParameter returns the first value of key, or fallback if absent.
func (ct *ContentType) GetParameter(key, fallback string) (value string) {
	if ct.Parameters == nil {
		return fallback
	}
	if v, ok := ct.Parameters.Get(key); ok {
		return v
	}
	return fallback
}

// Equal reports whether ct and other describe the same media type and
// parameter multiset.
func (ct *ContentType) Equal(other *ContentType) bool {
	if ct == nil || other == nil {
		return ct == other
	}
	return ct.Type == other.Type &&
		ct.SubType == other.SubType &&
		ct.Suffix == other.Suffix &&
		ct.Parameters.Equal(other.Parameters)
}

// Parse parses a Content-Type header value. An empty string parses to
// Empty() with a nil error. A malformed value still returns a
// best-effort ContentType alongside a non-nil *ParsingError, rather
// than failing fast and discarding what was already understood.
func Parse(s string) (ct *ContentType, err error) {
	if s == "" {
		return Empty(), nil
	}
	var p = &parser{runes: []rune(s)}
	var typ, subType, suffix, expected = p.parseHead()
	if typ != "" {
		typ = foldCaser.String(typ)
	}
	if subType != "" {
		subType = foldCaser.String(subType)
	}
	if suffix != "" {
		suffix = foldCaser.String(suffix)
	}
	if typ == "*" && subType == "" {
		subType = "*"
	}
	var parameters *MultiValueMap
	if expected == "" && !p.atEnd() {
		for {
			var key, value string
			var keyOK, valueOK bool
			key, value, keyOK, valueOK, expected = p.parseParameter()
			if keyOK || valueOK {
				if keyOK {
					key = foldCaser.String(key)
				}
				if parameters == nil {
					parameters = NewMultiValueMap()
				}
				parameters.Set(key, value)
			}
			if expected != "" {
				break
			}
			if p.atEnd() {
				break
			}
		}
	}
	ct = &ContentType{Type: typ, SubType: subType, Suffix: suffix, Parameters: parameters}
	if expected != "" {
		err = &ParsingError{String: s, Index: p.index, Expected: expected}
	}
	return
}
