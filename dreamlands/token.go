package dreamlands

// Grammar constants.
const (
	CommentChar   = '#'
	LineEndChar   = '\n'
	TabChar       = '\t'
	SeparatorChar = ':'
	ImportChar    = '>'
	CharQuote     = '\''
	StringQuote   = '"'
	EscapeChar    = '\\'

	ListKey = "-"
	True    = "true"
	False   = "false"

	// Shebang is the optional first line written by Encoder when
	// Encoder.Shebang is set. It reads back as a comment.
	Shebang = "#!/usr/bin/dreamlands"
)

// escapes maps the character following a backslash inside a literal to the
// character it stands for.
var escapes = map[rune]rune{
	'a':  0x07,
	'b':  '\b',
	'e':  0x1b,
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

// unescapes is the inverse of escapes, used by the encoder.
var unescapes = func() map[rune]rune {
	m := make(map[rune]rune, len(escapes))
	for k, v := range escapes {
		m[v] = k
	}
	return m
}()

// Record is one source line as produced by the Lexer: the text found outside
// literals plus whatever character or string literal was captured.
type Record struct {
	Pos     Position // start of the line
	Raw     string
	Char    rune   // captured character literal
	Str     string // captured string literal
	HasChar bool
	HasStr  bool
}

// IsEmpty reports whether the line carried nothing but blanks or comments.
func (r Record) IsEmpty() bool {
	return r.Raw == "" && !r.HasChar && !r.HasStr
}

func isKeyChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || isDigit(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
