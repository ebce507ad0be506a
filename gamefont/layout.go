package gamefont

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Channel selects which color channel of a font texture holds a glyph.
type Channel int8

// Texture channels. The values are byte offsets in an RGBA texel.
const (
	ChannelColor Channel = -1 // all four channels; a colored glyph
	ChannelRed   Channel = 0
	ChannelGreen Channel = 1
	ChannelBlue  Channel = 2
	ChannelAlpha Channel = 3
)

// channelFromMask converts a BMFont "chnl" bit mask.
func channelFromMask(mask int) (Channel, error) {
	switch mask {
	case 1:
		return ChannelBlue, nil
	case 2:
		return ChannelGreen, nil
	case 4:
		return ChannelRed, nil
	case 8:
		return ChannelAlpha, nil
	case 15:
		return ChannelColor, nil
	default:
		return 0, fmt.Errorf("gamefont: unsupported channel mask %d", mask)
	}
}

// Glyph locates one glyph inside a font texture.
type Glyph struct {
	Rune          rune
	X, Y          int // top-left in texture pixels
	Width, Height int
	XOffset       int // pen to left edge
	YOffset       int // line top to top edge
	XAdvance      int
	Page          int // index into the texture set
	Channel       Channel
}

// KerningPair is an ordered pair of runes.
type KerningPair struct {
	First, Second rune
}

// Layout is a parsed bitmap font layout.
type Layout struct {
	Face          string
	Size          int // nominal pixel size
	LineHeight    int
	Base          int // line top to baseline
	TextureWidth  int
	TextureHeight int
	Pages         []string

	glyphs  map[rune]Glyph
	kerning map[KerningPair]int
}

// Glyph returns the glyph for r.
func (l *Layout) Glyph(r rune) (Glyph, bool) {
	g, ok := l.glyphs[r]
	return g, ok
}

// HasGlyph reports whether the layout contains r.
func (l *Layout) HasGlyph(r rune) bool {
	_, ok := l.glyphs[r]
	return ok
}

// GlyphCount returns the number of glyphs.
func (l *Layout) GlyphCount() int {
	return len(l.glyphs)
}

// Kerning returns the advance adjustment between first and second.
func (l *Layout) Kerning(first, second rune) int {
	return l.kerning[KerningPair{first, second}]
}

// PageCount returns the number of textures the layout references:
// one more than the highest page index in use.
func (l *Layout) PageCount() int {
	n := len(l.Pages)
	for _, g := range l.glyphs {
		if g.Page+1 > n {
			n = g.Page + 1
		}
	}
	return n
}

var (
	bmLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "String", Pattern: `"[^"\n]*"`},
		{Name: "Number", Pattern: `-?\d+`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Punct", Pattern: `[=,]`},
	})

	bmParser = participle.MustBuild[bmFile](
		participle.Lexer(bmLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)
)

// bmFile is the AST of a BMFont text descriptor.
type bmFile struct {
	Lines []*bmLine `parser:"Newline* ( @@ Newline* )*"`
}

type bmLine struct {
	Pos   lexer.Position `parser:""`
	Tag   string         `parser:"@Ident"`
	Attrs []*bmAttr      `parser:"@@*"`
}

type bmAttr struct {
	Key   string   `parser:"@Ident '='"`
	Value *bmValue `parser:"@@"`
}

type bmValue struct {
	Str  *string `parser:"  @String"`
	Ints []int   `parser:"| @Number ( ',' @Number )*"`
}

// attrs indexes the attributes of one line.
type attrs map[string]*bmValue

func (l *bmLine) attrs() attrs {
	a := make(attrs, len(l.Attrs))
	for _, at := range l.Attrs {
		a[at.Key] = at.Value
	}
	return a
}

func (a attrs) str(key string) string {
	if v := a[key]; v != nil && v.Str != nil {
		return *v.Str
	}
	return ""
}

func (a attrs) int(key string, def int) (int, error) {
	v := a[key]
	if v == nil {
		return def, nil
	}
	if len(v.Ints) != 1 {
		return 0, fmt.Errorf("attribute %s is not a single integer", key)
	}
	return v.Ints[0], nil
}

// ints reads several integer attributes, stopping at the first error.
func (a attrs) ints(dst map[string]*int) error {
	for key, p := range dst {
		v, err := a.int(key, *p)
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}

// ParseLayout reads a BMFont text descriptor.
func ParseLayout(r io.Reader) (*Layout, error) {
	ast, err := bmParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("gamefont: %w", err)
	}
	return buildLayout(ast)
}

// ParseLayoutString reads a BMFont text descriptor from a string.
func ParseLayoutString(s string) (*Layout, error) {
	ast, err := bmParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("gamefont: %w", err)
	}
	return buildLayout(ast)
}

func buildLayout(ast *bmFile) (*Layout, error) {
	l := &Layout{
		glyphs:  make(map[rune]Glyph),
		kerning: make(map[KerningPair]int),
	}
	sawCommon := false
	for _, line := range ast.Lines {
		a := line.attrs()
		var err error
		switch strings.ToLower(line.Tag) {
		case "info":
			l.Face = a.str("face")
			l.Size, err = a.int("size", 0)
			if l.Size < 0 {
				l.Size = -l.Size
			}
		case "common":
			sawCommon = true
			err = a.ints(map[string]*int{
				"lineHeight": &l.LineHeight,
				"base":       &l.Base,
				"scaleW":     &l.TextureWidth,
				"scaleH":     &l.TextureHeight,
			})
		case "page":
			err = l.addPage(a)
		case "char":
			err = l.addGlyph(a)
		case "kerning":
			err = l.addKerning(a)
		}
		if err != nil {
			return nil, fmt.Errorf("gamefont: line %d: %w", line.Pos.Line, err)
		}
	}

	if !sawCommon {
		return nil, errors.New("gamefont: layout has no common line")
	}
	if l.TextureWidth <= 0 || l.TextureHeight <= 0 {
		return nil, fmt.Errorf("gamefont: invalid texture size %dx%d", l.TextureWidth, l.TextureHeight)
	}
	for _, g := range l.glyphs {
		if g.X < 0 || g.Y < 0 || g.X+g.Width > l.TextureWidth || g.Y+g.Height > l.TextureHeight {
			return nil, fmt.Errorf("gamefont: glyph %U lies outside the texture", g.Rune)
		}
	}
	return l, nil
}

func (l *Layout) addPage(a attrs) error {
	id, err := a.int("id", -1)
	if err != nil {
		return err
	}
	if id < 0 {
		return errors.New("page without id")
	}
	for len(l.Pages) <= id {
		l.Pages = append(l.Pages, "")
	}
	l.Pages[id] = a.str("file")
	return nil
}

func (l *Layout) addGlyph(a attrs) error {
	id, err := a.int("id", -1)
	if err != nil {
		return err
	}
	if id < 0 {
		return errors.New("char without id")
	}
	chnl, err := a.int("chnl", 15)
	if err != nil {
		return err
	}

	g := Glyph{Rune: rune(id)}
	err = a.ints(map[string]*int{
		"x":        &g.X,
		"y":        &g.Y,
		"width":    &g.Width,
		"height":   &g.Height,
		"xoffset":  &g.XOffset,
		"yoffset":  &g.YOffset,
		"xadvance": &g.XAdvance,
		"page":     &g.Page,
	})
	if err != nil {
		return err
	}
	if g.Width < 0 || g.Height < 0 || g.Page < 0 {
		return fmt.Errorf("char %d has negative size or page", id)
	}
	if g.Channel, err = channelFromMask(chnl); err != nil {
		return err
	}
	l.glyphs[g.Rune] = g
	return nil
}

func (l *Layout) addKerning(a attrs) error {
	var first, second, amount int
	if err := a.ints(map[string]*int{
		"first":  &first,
		"second": &second,
		"amount": &amount,
	}); err != nil {
		return err
	}
	l.kerning[KerningPair{rune(first), rune(second)}] = amount
	return nil
}
