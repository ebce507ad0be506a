// Package systemfont locates installed outline fonts by family and variant
// and rasterizes their glyphs.
//
// Lookup uses the go-text/typesetting font index; rasterization uses the
// golang.org/x/image OpenType renderer.
package systemfont

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/fontscan"

	"github.com/gogpu/fontatlas"
	"github.com/gogpu/fontatlas/glyph"
	"github.com/gogpu/fontatlas/internal/filecache"
)

// ErrFamilyNotFound is returned when no installed font has the requested family.
var ErrFamilyNotFound = errors.New("systemfont: font family not found")

// Provider opens system fonts by family name and variant.
// It implements fontatlas.SystemFontProvider.
//
// Provider is not safe for concurrent use.
type Provider struct {
	fm        *fontscan.FontMap
	cacheDir  string
	useSystem bool
	scanned   bool
	added     map[string][]byte
	files     *filecache.Cache
	fileCache int64
	readFile  func(string) ([]byte, error)
	probeRune rune
}

var _ fontatlas.SystemFontProvider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithCacheDir sets the directory of the font index cache.
// By default the user cache directory is used.
func WithCacheDir(dir string) Option {
	return func(p *Provider) {
		p.cacheDir = dir
	}
}

// WithFileCacheSize bounds the memory kept for font file contents.
// The default is 64 MiB.
func WithFileCacheSize(bytes int64) Option {
	return func(p *Provider) {
		p.fileCache = bytes
	}
}

// WithoutSystemFonts skips scanning installed fonts. Only fonts added with
// AddFont are found.
func WithoutSystemFonts() Option {
	return func(p *Provider) {
		p.useSystem = false
	}
}

// NewProvider creates a provider. The system font index is built lazily on
// the first lookup.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		fm:        fontscan.NewFontMap(logAdapter{}),
		useSystem: true,
		added:     make(map[string][]byte),
		readFile:  os.ReadFile,
		probeRune: ' ',
	}
	for _, opt := range opts {
		opt(p)
	}
	p.files = filecache.New(p.fileCache)
	return p
}

// AddFont registers in-memory font data under family. fileID identifies the
// data in lookups and must be unique per provider.
func (p *Provider) AddFont(data []byte, fileID, family string) error {
	if err := p.fm.AddFont(bytes.NewReader(data), fileID, family); err != nil {
		return fmt.Errorf("systemfont: add %s: %w", fileID, err)
	}
	p.added[fileID] = data
	return nil
}

// CacheStats is a snapshot of the font file cache.
type CacheStats = filecache.Stats

// CacheStats reports the font file cache. Fonts added with AddFont are
// held outside the cache and not counted.
func (p *Provider) CacheStats() CacheStats {
	return p.files.Stats()
}

// OpenSystemFont finds the face of family name closest to variant and
// prepares it for rasterization at sizePx.
func (p *Provider) OpenSystemFont(name string, variant font.Aspect, sizePx float64) (glyph.Rasterizer, error) {
	loc, err := p.locate(name, variant)
	if err != nil {
		return nil, err
	}
	data, err := p.load(loc.File)
	if err != nil {
		return nil, err
	}
	face, err := NewFace(data, int(loc.Index), sizePx)
	if err != nil {
		return nil, fmt.Errorf("systemfont: %s: %w", name, err)
	}
	fontatlas.Logger().Debug("systemfont: opened",
		"family", name, "file", loc.File, "index", loc.Index, "size", sizePx)
	return face, nil
}

func (p *Provider) locate(name string, variant font.Aspect) (fontscan.Location, error) {
	if p.useSystem && !p.scanned {
		// An empty cache dir lets the index pick the platform default.
		if err := p.fm.UseSystemFonts(p.cacheDir); err != nil {
			return fontscan.Location{}, fmt.Errorf("systemfont: scan system fonts: %w", err)
		}
		p.scanned = true
	}

	aspect := variant
	aspect.SetDefaults()
	p.fm.SetQuery(fontscan.Query{Families: []string{name}, Aspect: aspect})
	face := p.fm.ResolveFace(p.probeRune)
	if face == nil {
		return fontscan.Location{}, fmt.Errorf("%w: %q", ErrFamilyNotFound, name)
	}

	// The font map falls back to other families; only accept the requested one.
	family, _ := p.fm.FontMetadata(face.Font)
	if font.NormalizeFamily(family) != font.NormalizeFamily(name) {
		loc, ok := p.fm.FindSystemFont(name)
		if !ok {
			return fontscan.Location{}, fmt.Errorf("%w: %q", ErrFamilyNotFound, name)
		}
		return loc, nil
	}
	return p.fm.FontLocation(face.Font), nil
}

func (p *Provider) load(file string) ([]byte, error) {
	if data, ok := p.added[file]; ok {
		return data, nil
	}
	data, err := p.files.GetOrLoad(file, p.readFile)
	if err != nil {
		return nil, fmt.Errorf("systemfont: read %s: %w", file, err)
	}
	return data, nil
}

// logAdapter forwards font index diagnostics to the fontatlas logger.
type logAdapter struct{}

func (logAdapter) Printf(format string, args ...interface{}) {
	fontatlas.Logger().Debug(fmt.Sprintf(format, args...), "component", "fontscan")
}
