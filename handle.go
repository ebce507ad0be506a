package fontatlas

import (
	"fmt"
	"sync/atomic"
)

// atlasGen numbers atlas instances so handles never alias across atlases.
var atlasGen atomic.Uint32

func nextGen() uint32 {
	for {
		if g := atlasGen.Add(1); g != 0 {
			return g
		}
	}
}

// FontHandle is an opaque reference to a resolved font of one atlas.
// The zero handle is invalid and refers to nothing.
type FontHandle struct {
	gen  uint32
	slot uint32
}

// Valid reports whether h was issued by an atlas.
func (h FontHandle) Valid() bool {
	return h.gen != 0
}

// Slot returns the font slot index of h, or -1 for the zero handle.
func (h FontHandle) Slot() int {
	if !h.Valid() {
		return -1
	}
	return int(h.slot)
}

func (h FontHandle) String() string {
	if !h.Valid() {
		return "FontHandle(invalid)"
	}
	return fmt.Sprintf("FontHandle(%d:%d)", h.gen, h.slot)
}
