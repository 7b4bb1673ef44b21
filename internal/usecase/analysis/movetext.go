package analysis

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/notnil/chess"
)

// rawMove is a move as written in PGN movetext, before it is checked
// against the board.
type rawMove struct {
	san        string
	comments   []string
	variations [][]rawMove
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokMove
	tokComment
	tokOpen
	tokClose
	tokResult
)

var moveNumberRe = regexp.MustCompile(`^\d+\.+`)

// movetextParser reads the first game of a PGN, keeping comments and
// recursive variations that the chess package's own reader skips.
type movetextParser struct {
	src    string
	pos    int
	result string
}

func parseMovetext(src string) ([]rawMove, string, error) {
	p := &movetextParser{src: src, result: string(chess.NoOutcome)}
	line, err := p.line(0)
	if err != nil {
		return nil, "", err
	}
	return line, p.result, nil
}

func (p *movetextParser) line(depth int) ([]rawMove, error) {
	var (
		line    []rawMove
		leading []string
	)
	done := func() []rawMove {
		if len(line) > 0 && len(leading) > 0 {
			line[0].comments = append(leading, line[0].comments...)
		}
		return line
	}

	for {
		tok, kind := p.next()
		switch kind {
		case tokEOF:
			if depth > 0 {
				return nil, errors.New("unclosed variation")
			}
			return done(), nil
		case tokResult:
			if depth > 0 {
				return nil, fmt.Errorf("result %s inside a variation", tok)
			}
			p.result = tok
			return done(), nil
		case tokClose:
			if depth == 0 {
				return nil, errors.New("unexpected ')'")
			}
			return done(), nil
		case tokOpen:
			if len(line) == 0 {
				return nil, errors.New("variation before any move")
			}
			v, err := p.line(depth + 1)
			if err != nil {
				return nil, err
			}
			if len(v) > 0 {
				last := &line[len(line)-1]
				last.variations = append(last.variations, v)
			}
		case tokComment:
			switch {
			case tok == "":
			case len(line) == 0:
				leading = append(leading, tok)
			default:
				last := &line[len(line)-1]
				last.comments = append(last.comments, tok)
			}
		case tokMove:
			line = append(line, rawMove{san: tok})
		}
	}
}

func (p *movetextParser) next() (string, tokenKind) {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case ' ', '\t', '\r', '\n':
			p.pos++
		case '[':
			p.skipPast(']')
		case ';':
			p.skipPast('\n')
		case '{':
			start := p.pos + 1
			p.skipPast('}')
			end := p.pos - 1
			if end < start || p.src[end] != '}' {
				end = p.pos
			}
			return strings.TrimSpace(p.src[start:end]), tokComment
		case '(':
			p.pos++
			return "(", tokOpen
		case ')':
			p.pos++
			return ")", tokClose
		case '$':
			p.word()
		default:
			word := p.word()
			switch word {
			case "1-0", "0-1", "1/2-1/2", "*":
				return word, tokResult
			}
			san := strings.TrimLeft(moveNumberRe.ReplaceAllString(word, ""), ".")
			if san == "" || strings.Trim(san, "0123456789") == "" {
				continue
			}
			if strings.HasPrefix(san, "0-0") {
				san = strings.ReplaceAll(san, "0", "O")
			}
			return san, tokMove
		}
	}
	return "", tokEOF
}

// skipPast moves the cursor just after the next b, or to the end.
func (p *movetextParser) skipPast(b byte) {
	if i := strings.IndexByte(p.src[p.pos:], b); i >= 0 {
		p.pos += i + 1
		return
	}
	p.pos = len(p.src)
}

func (p *movetextParser) word() string {
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(" \t\r\n(){}[];", rune(p.src[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		p.pos++
	}
	return p.src[start:p.pos]
}
