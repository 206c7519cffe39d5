package dreamlands

import (
	"strings"
	"unicode/utf8"
)

// Lexer splits DREAMLANDS source text into one Record per line.
type Lexer struct {
	src      []byte
	filename string
	pos      int // current byte offset
	line     int // current line (1-based)
	col      int // current column (1-based)

	// StripSpaces drops spaces found outside literals, so that "key : 1"
	// reads as "key:1".
	StripSpaces bool
}

// NewLexer creates a new Lexer for the given source bytes. filename is only
// used in positions and may be empty.
func NewLexer(src []byte, filename string) *Lexer {
	return &Lexer{src: src, filename: filename, line: 1, col: 1, StripSpaces: true}
}

func (l *Lexer) currentPos() Position {
	return Position{Filename: l.filename, Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	ch, _ := utf8.DecodeRune(l.src[l.pos:])
	return ch
}

func (l *Lexer) advance() rune {
	ch, size := utf8.DecodeRune(l.src[l.pos:])
	l.pos += size
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// Records scans the whole source. Blank and comment-only lines produce empty
// records so that record i always describes line i+1.
func (l *Lexer) Records() ([]Record, error) {
	if err := l.checkEncoding(); err != nil {
		return nil, err
	}

	var records []Record
	var raw strings.Builder
	rec := Record{Pos: l.currentPos()}

	for !l.atEnd() {
		start := l.currentPos()
		ch := l.advance()
		switch ch {
		case CommentChar:
			for !l.atEnd() && l.peek() != LineEndChar {
				l.advance()
			}
		case CharQuote:
			if err := l.scanChar(&rec, start); err != nil {
				return nil, err
			}
		case StringQuote:
			if err := l.scanString(&rec, start); err != nil {
				return nil, err
			}
		case LineEndChar:
			rec.Raw = raw.String()
			records = append(records, rec)
			raw.Reset()
			rec = Record{Pos: l.currentPos()}
		case '\r':
			if l.peek() != LineEndChar {
				raw.WriteRune(ch)
			}
		case ' ':
			if !l.StripSpaces {
				raw.WriteRune(ch)
			}
		default:
			raw.WriteRune(ch)
		}
	}

	rec.Raw = raw.String()
	records = append(records, rec)
	return records, nil
}

func (l *Lexer) scanChar(rec *Record, start Position) error {
	if l.peek() == CharQuote {
		return lexError(start, "empty characters are not supported")
	}
	for {
		if l.atEnd() {
			return lexError(start, "unterminated character literal")
		}
		pos := l.currentPos()
		ch := l.advance()
		switch ch {
		case CharQuote:
			return nil
		case EscapeChar:
			var err error
			if ch, err = l.scanEscape(start); err != nil {
				return err
			}
		}
		if rec.HasChar {
			return lexError(pos, "only one character is allowed in a character literal")
		}
		rec.Char = ch
		rec.HasChar = true
	}
}

func (l *Lexer) scanString(rec *Record, start Position) error {
	if l.peek() == StringQuote {
		return lexError(start, "empty strings are not supported")
	}
	var sb strings.Builder
	for {
		if l.atEnd() {
			return lexError(start, "unterminated string literal")
		}
		ch := l.advance()
		switch ch {
		case StringQuote:
			rec.Str += sb.String()
			rec.HasStr = true
			return nil
		case EscapeChar:
			esc, err := l.scanEscape(start)
			if err != nil {
				return err
			}
			sb.WriteRune(esc)
		default:
			sb.WriteRune(ch)
		}
	}
}

// scanEscape reads the character following a backslash. start is the
// position of the enclosing literal.
func (l *Lexer) scanEscape(start Position) (rune, error) {
	if l.atEnd() {
		return 0, lexError(start, "unterminated escape sequence")
	}
	pos := l.currentPos()
	ch := l.advance()
	esc, ok := escapes[ch]
	if !ok {
		return 0, lexError(pos, "invalid escape sequence \\%c", ch)
	}
	return esc, nil
}

func (l *Lexer) checkEncoding() error {
	if utf8.Valid(l.src) {
		return nil
	}
	ahead := *l
	for !ahead.atEnd() {
		if ch, size := utf8.DecodeRune(ahead.src[ahead.pos:]); ch == utf8.RuneError && size == 1 {
			return lexError(ahead.currentPos(), "invalid UTF-8")
		}
		ahead.advance()
	}
	return nil
}
