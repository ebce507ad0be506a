// Package chainspec parses textual font chain descriptors.
//
// A descriptor lists fonts in fallback order, separated by "," or ">":
//
//	game:Axis@14, system:"Noto Sans"/bold+italic@12, file:"fonts/x.ttc"#1@12, default
//
// Every entry except default needs a pixel size after "@". System font
// variants are the words accepted by fontatlas.ParseVariant.
package chainspec

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/gogpu/fontatlas"
	"github.com/gogpu/fontatlas/gamefont"
)

// ErrSizeRequired is returned for non-default entries without a size.
var ErrSizeRequired = errors.New("chainspec: font size required")

var (
	specLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
		{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_\-]*`},
		{Name: "Punct", Pattern: `[,>@:/+#]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	chainParser = participle.MustBuild[chainAST](
		participle.Lexer(specLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)

	entryParser = participle.MustBuild[entryAST](
		participle.Lexer(specLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)
)

type chainAST struct {
	Entries []*entryAST `parser:"@@ ( ( ',' | '>' ) @@ )*"`
}

type entryAST struct {
	Pos    lexer.Position `parser:""`
	Source *sourceAST     `parser:"@@"`
	Size   *float64       `parser:"( '@' @Number )?"`
}

type sourceAST struct {
	Default bool       `parser:"  @'default'"`
	Game    *string    `parser:"| 'game' ':' @Ident"`
	System  *systemAST `parser:"| 'system' ':' @@"`
	File    *fileAST   `parser:"| 'file' ':' @@"`
}

type systemAST struct {
	Name    string   `parser:"( @String | @Ident )"`
	Variant []string `parser:"( '/' @Ident ( '+' @Ident )* )?"`
}

type fileAST struct {
	Path  string `parser:"@String"`
	Index *int   `parser:"( '#' @Number )?"`
}

// Parse parses a chain descriptor.
func Parse(s string) (fontatlas.FontChain, error) {
	ast, err := chainParser.ParseString("", s)
	if err != nil {
		return fontatlas.FontChain{}, fmt.Errorf("chainspec: %w", err)
	}
	entries := make([]fontatlas.ChainEntry, 0, len(ast.Entries))
	for _, e := range ast.Entries {
		entry, err := e.entry()
		if err != nil {
			return fontatlas.FontChain{}, err
		}
		entries = append(entries, entry)
	}
	return fontatlas.NewFontChain(entries...), nil
}

// ParseIdent parses a single entry, such as `system:Arial/bold@16`, and
// returns its identity and size. The size is 0 for a bare default entry.
func ParseIdent(s string) (fontatlas.FontIdent, float32, error) {
	ast, err := entryParser.ParseString("", s)
	if err != nil {
		return fontatlas.FontIdent{}, 0, fmt.Errorf("chainspec: %w", err)
	}
	e, err := ast.entry()
	if err != nil {
		return fontatlas.FontIdent{}, 0, err
	}
	return e.Ident, e.SizePx, nil
}

func (e *entryAST) entry() (fontatlas.ChainEntry, error) {
	id, err := e.Source.ident()
	if err != nil {
		return fontatlas.ChainEntry{}, fmt.Errorf("chainspec: %s: %w", e.Pos, err)
	}
	var size float32
	if e.Size != nil {
		size = float32(*e.Size)
	}
	if size <= 0 && id.Kind != fontatlas.KindDefault {
		return fontatlas.ChainEntry{}, fmt.Errorf("%w: %s at %s", ErrSizeRequired, id, e.Pos)
	}
	return fontatlas.ChainEntry{Ident: id, SizePx: size}, nil
}

func (s *sourceAST) ident() (fontatlas.FontIdent, error) {
	switch {
	case s.Game != nil:
		f, ok := gamefont.ParseFamily(*s.Game)
		if !ok {
			return fontatlas.FontIdent{}, fmt.Errorf("unknown game font family %q", *s.Game)
		}
		return fontatlas.GameFont(f), nil
	case s.System != nil:
		variant, err := fontatlas.ParseVariant(s.System.Variant...)
		if err != nil {
			return fontatlas.FontIdent{}, err
		}
		return fontatlas.SystemFont(s.System.Name, variant), nil
	case s.File != nil:
		index := 0
		if s.File.Index != nil {
			index = *s.File.Index
		}
		return fontatlas.FileFont(s.File.Path, index), nil
	default:
		return fontatlas.DefaultFont(), nil
	}
}
