package bibtex

import (
	"fmt"
	"os"
	"strings"
	"unicode"
)

// ParseError describes malformed entry syntax at a source line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ParseFile reads and parses a bibliography file.
func ParseFile(path string) (*Bibliography, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bibliography: %w", err)
	}
	bib, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return bib, nil
}

// Parse parses bibliography text into structured entries.
//
// Text outside @-blocks is treated as commentary and dropped, as are
// @comment blocks and a stray '@' not followed by "type{" (an email
// address in an exporter banner, say). @string and @preamble blocks
// are not supported and are skipped. Citation keys must be unique.
func Parse(src string) (*Bibliography, error) {
	p := &parser{src: src, line: 1}
	bib := &Bibliography{}
	seen := make(map[string]int)

	for {
		if !p.seekEntry() {
			break
		}
		entryLine := p.line
		entry, err := p.parseEntry()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			continue // @comment, @string, @preamble
		}
		if prev, dup := seen[entry.Key]; dup {
			return nil, &ParseError{Line: entryLine,
				Msg: fmt.Sprintf("duplicate citation key %q (first defined at line %d)", entry.Key, prev)}
		}
		seen[entry.Key] = entryLine
		bib.Entries = append(bib.Entries, *entry)
	}

	return bib, nil
}

type parser struct {
	src  string
	pos  int
	line int
}

// seekEntry advances to the next '@', returning false at end of input.
func (p *parser) seekEntry() bool {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '@' {
			p.pos++
			return true
		}
		if c == '\n' {
			p.line++
		}
		p.pos++
	}
	return false
}

// parseEntry parses one @type{key, ...} block. The leading '@' has been
// consumed. Returns (nil, nil) for blocks that carry no entry data and
// for a '@' that does not open an entry at all, which resynchronizes
// the scan at the following text.
func (p *parser) parseEntry() (*Entry, error) {
	startLine := p.line

	typ := strings.ToLower(p.readIdent())
	p.skipSpace()
	if typ == "" || !p.accept('{') {
		return nil, nil
	}

	switch typ {
	case "comment", "string", "preamble":
		if err := p.skipBraced(startLine); err != nil {
			return nil, err
		}
		return nil, nil
	}

	p.skipSpace()
	key := p.readUntil(",}")
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, &ParseError{Line: p.line, Msg: fmt.Sprintf("missing citation key in @%s entry", typ)}
	}
	if strings.ContainsAny(key, " \t\n") {
		return nil, &ParseError{Line: p.line, Msg: fmt.Sprintf("invalid citation key %q", key)}
	}

	entry := &Entry{Type: typ, Key: key}

	for {
		p.skipSpace()
		if p.accept('}') {
			return entry, nil
		}
		if p.accept(',') {
			continue
		}
		if p.pos >= len(p.src) {
			return nil, &ParseError{Line: startLine, Msg: fmt.Sprintf("unterminated entry %q", key)}
		}

		name := strings.ToLower(strings.TrimSpace(p.readUntil("=,}")))
		if name == "" || !p.accept('=') {
			return nil, &ParseError{Line: p.line, Msg: fmt.Sprintf("expected field assignment in entry %q", key)}
		}

		value, err := p.readValue(key)
		if err != nil {
			return nil, err
		}
		entry.Fields = append(entry.Fields, Field{Name: name, Value: value})

		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == '#' {
			return nil, &ParseError{Line: p.line, Msg: fmt.Sprintf("string concatenation is not supported (entry %q)", key)}
		}
	}
}

// readValue parses a field value: a braced group, a quoted string, or a
// bare token (number or month macro).
func (p *parser) readValue(key string) (string, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return "", &ParseError{Line: p.line, Msg: fmt.Sprintf("unterminated entry %q", key)}
	}

	switch p.src[p.pos] {
	case '{':
		p.pos++
		return p.readBraced(key)
	case '"':
		p.pos++
		return p.readQuoted(key)
	default:
		val := strings.TrimSpace(p.readUntil(",}#"))
		if val == "" {
			return "", &ParseError{Line: p.line, Msg: fmt.Sprintf("empty field value in entry %q", key)}
		}
		return val, nil
	}
}

// readBraced consumes a brace-balanced value; the opening brace has been
// consumed. Inner braces are kept verbatim.
func (p *parser) readBraced(key string) (string, error) {
	start := p.pos
	depth := 1
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				val := p.src[start:p.pos]
				p.pos++
				return val, nil
			}
		case '\n':
			p.line++
		}
		p.pos++
	}
	return "", &ParseError{Line: p.line, Msg: fmt.Sprintf("unbalanced braces in entry %q", key)}
}

// readQuoted consumes a quoted value; the opening quote has been
// consumed. A quote inside a braced group does not terminate the value.
func (p *parser) readQuoted(key string) (string, error) {
	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				val := p.src[start:p.pos]
				p.pos++
				return val, nil
			}
		case '\n':
			p.line++
		}
		p.pos++
	}
	return "", &ParseError{Line: p.line, Msg: fmt.Sprintf("unterminated quoted value in entry %q", key)}
}

// skipBraced skips a brace-balanced block; the opening brace has been
// consumed.
func (p *parser) skipBraced(startLine int) error {
	depth := 1
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		case '\n':
			p.line++
		}
		p.pos++
	}
	return &ParseError{Line: startLine, Msg: "unbalanced braces"}
}

func (p *parser) readIdent() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// readUntil consumes characters up to (not including) any byte in stops.
func (p *parser) readUntil(stops string) string {
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(stops, rune(p.src[p.pos])) {
		if p.src[p.pos] == '\n' {
			p.line++
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '\n' {
			p.line++
		} else if c != ' ' && c != '\t' && c != '\r' {
			return
		}
		p.pos++
	}
}

func (p *parser) accept(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}
