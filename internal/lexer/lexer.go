// Package lexer classifies template strings by the markers they contain.
//
// A string resolves to exactly one kind: plain literal text, an interpolation
// ("Hello {{ $.name }}!"), or a single terminal marker covering the whole
// string ({{{ raw }}}, {{& unquote }}, {{# section }}, {{? switch }}).
// Terminal marker kinds are recognized only at the start of the input;
// anywhere else "{{" opens an interpolation unless followed by one of the
// marker kind bytes, in which case the braces are ordinary text. The escapes
// \{{ and \{{{ emit the braces as literal text with the backslash consumed.
package lexer

import (
	"fmt"
	"strings"

	"github.com/jacoelho/jt/internal/ast"
	"github.com/jacoelho/jt/internal/pathquery"
	"github.com/jacoelho/jt/internal/stack"
)

// Kind identifies the classification of a lexed string.
type Kind int

const (
	KindLiteral Kind = iota
	KindInterpolation
	KindRaw
	KindUnquote
	KindSection
	KindSwitch
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindInterpolation:
		return "interpolation"
	case KindRaw:
		return "raw"
	case KindUnquote:
		return "unquote"
	case KindSection:
		return "section"
	case KindSwitch:
		return "switch"
	default:
		return "unknown"
	}
}

// Result is the outcome of lexing one string. Text is set for KindLiteral,
// Tokens for KindInterpolation, and Path for the terminal marker kinds.
type Result struct {
	Kind   Kind
	Text   string
	Tokens []ast.Token
	Path   pathquery.Path
}

type mode int

const (
	modeEmpty mode = iota
	modeLiteral
	modeInterpolate
	modeOpen
	modeClosed
)

// machine is the lexer state: the current mode plus a stack of accumulator
// frames. Literal and interpolate modes keep the pending text fragment on top
// of the stack; an open marker pushes a fresh frame for its path text.
type machine struct {
	mode    mode
	open    Kind
	openPos int
	frames  *stack.Stack[*strings.Builder]
	tokens  []ast.Token
	result  Result
	paths   pathquery.Compiler
}

// Lex runs the marker state machine over input, compiling any path text it
// finds through paths.
func Lex(input string, paths pathquery.Compiler) (Result, error) {
	m := &machine{
		frames: stack.New[*strings.Builder](),
		paths:  paths,
	}

	i := 0
	for i < len(input) {
		if m.mode == modeClosed {
			return Result{}, fmt.Errorf("%w: unexpected content after %s marker at position %d", ErrInvalid, m.result.Kind, i)
		}

		rest := input[i:]
		switch {
		case strings.HasPrefix(rest, `\{{{`):
			m.appendText("{{{")
			i += 4

		case strings.HasPrefix(rest, `\{{`):
			m.appendText("{{")
			i += 3

		case m.mode == modeEmpty && strings.HasPrefix(rest, "{{{"):
			m.openMarker(KindRaw, i)
			i += 3

		case m.mode == modeEmpty && strings.HasPrefix(rest, "{{&"):
			m.openMarker(KindUnquote, i)
			i += 3

		case m.mode == modeEmpty && strings.HasPrefix(rest, "{{#"):
			m.openMarker(KindSection, i)
			i += 3

		case m.mode == modeEmpty && strings.HasPrefix(rest, "{{?"):
			m.openMarker(KindSwitch, i)
			i += 3

		case m.mode != modeOpen && strings.HasPrefix(rest, "{{") && !markerKindFollows(rest):
			m.flushFragment()
			m.openMarker(KindInterpolation, i)
			i += 2

		case m.mode == modeOpen && m.open == KindRaw && strings.HasPrefix(rest, "}}}"):
			if err := m.closeMarker(); err != nil {
				return Result{}, err
			}
			i += 3

		case m.mode == modeOpen && m.open != KindRaw && strings.HasPrefix(rest, "}}"):
			if err := m.closeMarker(); err != nil {
				return Result{}, err
			}
			i += 2

		default:
			m.appendByte(input[i])
			i++
		}
	}

	return m.finish()
}

// markerKindFollows reports whether "{{" is immediately followed by a marker
// kind byte, making the braces plain text outside the initial state.
func markerKindFollows(rest string) bool {
	if len(rest) < 3 {
		return false
	}

	switch rest[2] {
	case '{', '&', '#', '?':
		return true
	default:
		return false
	}
}

func (m *machine) top() *strings.Builder {
	if m.frames.IsEmpty() {
		m.frames.Push(&strings.Builder{})
	}

	return *m.frames.PeekRef()
}

func (m *machine) appendText(s string) {
	if m.mode == modeEmpty {
		m.mode = modeLiteral
	}

	m.top().WriteString(s)
}

func (m *machine) appendByte(b byte) {
	if m.mode == modeEmpty {
		m.mode = modeLiteral
	}

	m.top().WriteByte(b)
}

// flushFragment moves the pending literal fragment, if any, into the token
// stream. Adjacent fragments never survive as separate tokens.
func (m *machine) flushFragment() {
	frame, ok := m.frames.Pop()
	if ok && frame.Len() > 0 {
		m.tokens = append(m.tokens, ast.Text(frame.String()))
	}
}

func (m *machine) openMarker(kind Kind, at int) {
	m.open = kind
	m.openPos = at
	m.mode = modeOpen
	m.frames.Push(&strings.Builder{})
}

func (m *machine) closeMarker() error {
	frame, _ := m.frames.Pop()
	text := strings.TrimSpace(frame.String())

	path, err := m.paths.Compile(text)
	if err != nil {
		return fmt.Errorf("%w: %q at position %d: %v", ErrInvalidPath, text, m.openPos, err)
	}

	if m.open == KindInterpolation {
		m.tokens = append(m.tokens, ast.PathToken{Path: path})
		m.mode = modeInterpolate
		return nil
	}

	m.result = Result{Kind: m.open, Path: path}
	m.mode = modeClosed
	return nil
}

func (m *machine) finish() (Result, error) {
	switch m.mode {
	case modeEmpty:
		return Result{Kind: KindLiteral}, nil

	case modeLiteral:
		frame, _ := m.frames.Pop()
		return Result{Kind: KindLiteral, Text: frame.String()}, nil

	case modeInterpolate:
		m.flushFragment()
		return Result{Kind: KindInterpolation, Tokens: m.tokens}, nil

	case modeOpen:
		return Result{}, fmt.Errorf("%w: unterminated %s marker at position %d", ErrInvalid, m.open, m.openPos)

	default:
		return m.result, nil
	}
}
