// Package fontatlas rasterizes glyphs on demand and packs them into a
// bounded set of GPU textures.
//
// # Overview
//
// An [Atlas] turns font requests into renderable fonts. A request names a
// [FontIdent] (a game bitmap font family, an installed system font, a font
// file or the default font) and a pixel size, or a [FontChain] of such
// entries where later fonts supply glyphs the earlier ones lack.
//
//	dev, closeDev, err := gpu.OpenNoop()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer closeDev()
//
//	a, err := fontatlas.New(
//	    fontatlas.WithDevice(dev),
//	    fontatlas.WithSystemFonts(systemfont.NewProvider()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Close()
//
//	f, err := a.Resolve(fontatlas.SystemFont("Noto Sans", font.Aspect{}), 16)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = f.LoadGlyphs([]rune("Hello")...)
//
// # Textures
//
// Texture 0 holds the default glyph set and custom rectangles built by the
// native base atlas ([baseatlas]). Glyphs are packed into RGBA planes:
// monochrome planes pack four independent coverage masks, one per channel,
// and color planes pack full-color bitmaps. The integer part of a glyph's U
// coordinate selects the channel of a monochrome glyph (1 for red through 4
// for alpha) and is 0 for colored glyphs; the shader decodes it.
//
// Game bitmap fonts bring their own pre-rasterized textures, which occupy
// whole texture slots. Every kind of slot counts toward the limit set with
// [WithMaxPlanes].
//
// # Uploads
//
// Rasterized glyphs are written to CPU buffers and uploaded by [Atlas.Flush].
// [Atlas.BeginSuppression] defers uploads so a batch of loads results in one
// upload per plane.
//
// # Caching
//
// Resolved fonts are cached by identity and whole pixel size, chains by
// content. Failures are cached too and replayed until
// [Atlas.ClearFailureHistory].
//
// # Logging
//
// Nothing is logged unless [SetLogger] installs a logger.
package fontatlas
