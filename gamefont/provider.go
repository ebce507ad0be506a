package gamefont

import (
	"fmt"
	"image"
	"image/png"
	"io/fs"
)

// DefaultTexturePattern names the shared font textures: page i is stored in
// fmt.Sprintf(DefaultTexturePattern, i+1).
const DefaultTexturePattern = "font%d.png"

// FSProvider reads game font layouts and textures from a file system.
//
// Every family shares one texture set; a layout's page index selects the
// texture. Parsed layouts are cached.
type FSProvider struct {
	fsys    fs.FS
	pattern string
	layouts map[FamilyAndSize]*Layout
}

// ProviderOption configures an FSProvider.
type ProviderOption func(*FSProvider)

// WithTexturePattern overrides DefaultTexturePattern.
func WithTexturePattern(pattern string) ProviderOption {
	return func(p *FSProvider) {
		p.pattern = pattern
	}
}

// NewFSProvider creates a provider reading from fsys.
func NewFSProvider(fsys fs.FS, opts ...ProviderOption) *FSProvider {
	p := &FSProvider{
		fsys:    fsys,
		pattern: DefaultTexturePattern,
		layouts: make(map[FamilyAndSize]*Layout),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Layout returns the parsed layout of fas.
func (p *FSProvider) Layout(fas FamilyAndSize) (*Layout, error) {
	if l, ok := p.layouts[fas]; ok {
		return l, nil
	}
	if !fas.Valid() {
		return nil, fmt.Errorf("gamefont: undefined font %v", fas)
	}
	f, err := p.fsys.Open(fas.FileName())
	if err != nil {
		return nil, fmt.Errorf("gamefont: open %s layout: %w", fas, err)
	}
	defer f.Close()

	l, err := ParseLayout(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fas.FileName(), err)
	}
	p.layouts[fas] = l
	return l, nil
}

// TextureSetKey identifies the texture set shared by all families.
func (p *FSProvider) TextureSetKey() string {
	return p.pattern
}

// LoadTexture decodes texture page index.
func (p *FSProvider) LoadTexture(index int) (image.Image, error) {
	if index < 0 {
		return nil, fmt.Errorf("gamefont: invalid texture index %d", index)
	}
	name := fmt.Sprintf(p.pattern, index+1)
	f, err := p.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("gamefont: open texture: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("gamefont: decode %s: %w", name, err)
	}
	return img, nil
}
