package fontatlas

import (
	"fmt"
	"image"
	"slices"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// EnsureTextures makes sure the first required textures of the game font
// texture set setKey are loaded and returns their texture slot indices.
//
// Textures are loaded once per set and only grow; already loaded textures
// are never reloaded. Pending plane uploads are flushed first; planes that
// fail to upload stay dirty and do not fail the call.
func (a *Atlas) EnsureTextures(setKey string, required int) ([]int, error) {
	if a.disposed {
		return nil, disposedError("EnsureTextures")
	}
	if required < 0 {
		return nil, &ArgumentError{Arg: "required", Reason: fmt.Sprintf("negative texture count %d", required)}
	}
	if err := a.Flush(); err != nil {
		Logger().Warn("fontatlas: flush before texture load", "set", setKey, "err", err)
	}

	ids := a.gameTextures[setKey]
	for len(ids) < required {
		if a.cfg.gameFonts == nil {
			return nil, fmt.Errorf("fontatlas: texture set %q: no game font provider", setKey)
		}
		if len(a.planes) >= a.cfg.maxPlanes {
			Logger().Warn("fontatlas: no texture slot for game texture", "set", setKey, "index", len(ids))
			return nil, &ResourceExhaustedError{MaxPlanes: a.cfg.maxPlanes}
		}
		img, err := a.cfg.gameFonts.LoadTexture(len(ids))
		if err != nil {
			return nil, fmt.Errorf("fontatlas: load texture %d of %q: %w", len(ids), setKey, err)
		}
		slot, err := a.addWholeTexture(fmt.Sprintf("%s #%d", setKey, len(ids)), img)
		if err != nil {
			return nil, err
		}
		ids = append(ids, slot)
		a.gameTextures[setKey] = ids
		Logger().Info("fontatlas: game texture loaded", "set", setKey, "index", len(ids)-1, "slot", slot)
	}
	return slices.Clone(ids[:required]), nil
}

// addWholeTexture uploads img as a new texture slot.
func (a *Atlas) addWholeTexture(label string, img image.Image) (int, error) {
	b := img.Bounds()
	if b.Empty() {
		return 0, fmt.Errorf("fontatlas: %s: empty image", label)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	tex, err := a.device.CreateTexture("fontatlas "+label, b.Dx(), b.Dy(), gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return 0, &UploadError{Op: "create", Texture: label, Err: err}
	}
	if err := a.device.WriteTexture(tex, dst.Pix); err != nil {
		a.device.DestroyTexture(tex)
		return 0, &UploadError{Op: "upload", Texture: label, Err: err}
	}
	a.planes = append(a.planes, &TexturePlane{
		kind:   PlaneWhole,
		width:  b.Dx(),
		height: b.Dy(),
		pix:    dst.Pix,
		tex:    tex,
	})
	return len(a.planes) - 1, nil
}
