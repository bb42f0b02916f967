package dsl

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	deckLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[;,]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(deckLexer),
		participle.Elide("Whitespace", "Newline", "LineComment", "BlockComment", "HashComment"),
	)
)

// File is the root AST node of a quote deck file.
type File struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Decks []*Deck        `parser:"@@*"`
}

// Deck is a named list of quotes.
type Deck struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Name   string         `parser:"'deck' @Ident"`
	Quotes []*Quote       `parser:"'{' ( @@ ( ';' | ',' )? )* '}'"`
}

// Quote is a single string literal inside a deck.
type Quote struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Text StringLiteral  `parser:"@String"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Texts returns the deck's quotes with surrounding whitespace trimmed;
// blank quotes are skipped.
func (d *Deck) Texts() []string {
	out := make([]string, 0, len(d.Quotes))
	for _, q := range d.Quotes {
		if text := strings.TrimSpace(string(q.Text)); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// Deck looks a deck up by name. An empty name selects the first deck.
func (f *File) Deck(name string) (*Deck, error) {
	if f == nil || len(f.Decks) == 0 {
		return nil, fmt.Errorf("quote file declares no deck")
	}
	if name == "" {
		return f.Decks[0], nil
	}
	for _, d := range f.Decks {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("deck %q not found (declared: %s)", name, strings.Join(f.Names(), ", "))
}

// Names lists the declared deck names in file order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Decks))
	for _, d := range f.Decks {
		names = append(names, d.Name)
	}
	return names
}

func (f *File) validate() error {
	seen := make(map[string]lexer.Position, len(f.Decks))
	for _, d := range f.Decks {
		if prev, ok := seen[d.Name]; ok {
			return fmt.Errorf("%s: deck %q already declared at %s", d.Pos, d.Name, prev)
		}
		seen[d.Name] = d.Pos
	}
	return nil
}

// Parse parses a quote deck from an io.Reader.
func Parse(r io.Reader) (*File, error) {
	return ParseNamed("", r)
}

// ParseNamed is Parse with a file name used in error positions.
func ParseNamed(name string, r io.Reader) (*File, error) {
	f, err := fileParser.Parse(name, r)
	if err != nil {
		return nil, err
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// ParseString parses a quote deck held in a string.
func ParseString(input string) (*File, error) {
	return ParseNamed("", strings.NewReader(input))
}

// ParseDeckFile reads and parses the deck file at path.
func ParseDeckFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quote deck: %w", err)
	}
	defer fh.Close()
	f, err := ParseNamed(path, fh)
	if err != nil {
		return nil, fmt.Errorf("parse quote deck %s: %w", path, err)
	}
	return f, nil
}
