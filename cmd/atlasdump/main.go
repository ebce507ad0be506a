// Command atlasdump builds a font atlas for a font chain and some text on
// the wgpu noop backend, prints statistics and optionally writes every
// texture as a PNG.
//
// Usage:
//
//	atlasdump -chain 'system:"DejaVu Sans"@16, game:Axis@16' -text "Hello" -out planes
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"unicode"

	"github.com/gogpu/fontatlas"
	"github.com/gogpu/fontatlas/chainspec"
	"github.com/gogpu/fontatlas/gamefont"
	"github.com/gogpu/fontatlas/gpu"
	"github.com/gogpu/fontatlas/systemfont"
)

func main() {
	var (
		chain     = flag.String("chain", `system:"DejaVu Sans"@16`, "font chain descriptor")
		text      = flag.String("text", "The quick brown fox jumps over the lazy dog", "text whose glyphs are loaded")
		latin     = flag.Bool("latin", false, "also load every Latin glyph")
		gameFonts = flag.String("gamefonts", "", "directory holding game font layouts and textures")
		size      = flag.Int("size", 1024, "texture width and height")
		maxPlanes = flag.Int("max-planes", fontatlas.MaxPlanes, "texture slot limit")
		gamma     = flag.Float64("gamma", fontatlas.DefaultGamma, "coverage gamma")
		out       = flag.String("out", "", "directory for texture PNGs")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	fontatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	c, err := chainspec.Parse(*chain)
	if err != nil {
		log.Fatalf("Invalid -chain: %v", err)
	}

	dev, closeDev, err := gpu.OpenNoop()
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer closeDev()

	g := float32(*gamma)
	sys := systemfont.NewProvider()
	opts := []fontatlas.Option{
		fontatlas.WithDevice(dev),
		fontatlas.WithTextureSize(*size, *size),
		fontatlas.WithMaxPlanes(*maxPlanes),
		fontatlas.WithGamma(func() float32 { return g }),
		fontatlas.WithSystemFonts(sys),
	}
	if *gameFonts != "" {
		opts = append(opts, fontatlas.WithGameFonts(gamefont.NewFSProvider(os.DirFS(*gameFonts))))
	}
	a, err := fontatlas.New(opts...)
	if err != nil {
		log.Fatalf("Failed to create atlas: %v", err)
	}
	defer a.Close()

	f, err := a.ResolveChain(c)
	if err != nil {
		log.Fatalf("Failed to resolve %s: %v", c, err)
	}
	if err := f.LoadGlyphs([]rune(*text)...); err != nil {
		log.Printf("Loading text: %v", err)
	}
	if *latin {
		if err := a.LoadGlyphRanges(f.Handle(), unicode.Latin, unicode.Digit); err != nil {
			log.Printf("Loading Latin: %v", err)
		}
	}

	printStats(a, f)
	cs := sys.CacheStats()
	fmt.Printf("font files: %d cached, %d/%d bytes, %d hits, %d misses, %d evictions\n",
		cs.Len, cs.Size, cs.Budget, cs.Hits, cs.Misses, cs.Evictions)

	if *out != "" {
		if err := writePlanes(a, *out); err != nil {
			log.Fatalf("Failed to write textures: %v", err)
		}
	}
}

func printStats(a *fontatlas.Atlas, f fontatlas.ResolvedFont) {
	fnt := f.Font()
	fmt.Printf("font %v: %s, %.1fpx, %d glyphs, fallback %q\n",
		f.Handle(), f.Kind(), fnt.SizePx, fnt.GlyphCount(), fnt.FallbackRune)
	fmt.Printf("fonts: %d, textures: %d/%d, planes: %d\n",
		a.FontCount(), a.TextureCount(), a.MaxTextures(), a.PlaneCount())
	for i := range a.TextureCount() {
		p := a.Plane(i)
		fmt.Printf("  texture %d: %s %dx%d", i, p.Kind(), p.Width(), p.Height())
		for ch, u := range p.Utilization() {
			fmt.Printf(" [%d] %.1f%%", ch, u*100)
		}
		fmt.Println()
	}
	for key, err := range a.FailedIdents() {
		fmt.Printf("failed %s: %v\n", key, err)
	}
}

func writePlanes(a *fontatlas.Atlas, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i := range a.TextureCount() {
		name := filepath.Join(dir, fmt.Sprintf("texture%03d.png", i))
		file, err := os.Create(name)
		if err != nil {
			return err
		}
		if err := png.Encode(file, a.Plane(i).Image()); err != nil {
			file.Close()
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := file.Close(); err != nil {
			return err
		}
		log.Printf("Texture %d saved to %s", i, name)
	}
	return nil
}
