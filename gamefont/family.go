// Package gamefont describes the pre-rasterized game bitmap font families:
// their native sizes, the size recommendation rule and the text layout
// files that locate each glyph inside the shared font textures.
package gamefont

import (
	"fmt"
	"strings"
)

// Family is a game bitmap font family.
type Family int

// Game font families.
const (
	Undefined Family = iota
	Axis
	Jupiter
	JupiterNumeric
	Meidinger
	MiedingerMid
	TrumpGothic
)

// nativeSize is one pre-rasterized size of a family.
type nativeSize struct {
	pt   float32
	stem string // layout file name without extension
}

var nativeSizes = map[Family][]nativeSize{
	Axis: {
		{9.6, "AXIS_096"},
		{12, "AXIS_12"},
		{14, "AXIS_14"},
		{18, "AXIS_18"},
		{36, "AXIS_36"},
	},
	Jupiter: {
		{16, "Jupiter_16"},
		{20, "Jupiter_20"},
		{23, "Jupiter_23"},
		{46, "Jupiter_46"},
	},
	JupiterNumeric: {
		{45, "Jupiter_45"},
		{90, "Jupiter_90"},
	},
	Meidinger: {
		{16, "Meidinger_16"},
		{20, "Meidinger_20"},
		{40, "Meidinger_40"},
	},
	MiedingerMid: {
		{10, "MiedingerMid_10"},
		{12, "MiedingerMid_12"},
		{14, "MiedingerMid_14"},
		{18, "MiedingerMid_18"},
		{36, "MiedingerMid_36"},
	},
	TrumpGothic: {
		{18.4, "TrumpGothic_184"},
		{23, "TrumpGothic_23"},
		{34, "TrumpGothic_34"},
		{68, "TrumpGothic_68"},
	},
}

var familyNames = [...]string{
	Undefined:      "Undefined",
	Axis:           "Axis",
	Jupiter:        "Jupiter",
	JupiterNumeric: "JupiterNumeric",
	Meidinger:      "Meidinger",
	MiedingerMid:   "MiedingerMid",
	TrumpGothic:    "TrumpGothic",
}

// String returns the family name.
func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return familyNames[f]
}

// Valid reports whether f is a known family other than Undefined.
func (f Family) Valid() bool {
	_, ok := nativeSizes[f]
	return ok
}

// ParseFamily returns the family with the given name, ignoring case.
func ParseFamily(name string) (Family, bool) {
	for f, n := range familyNames {
		if Family(f) != Undefined && strings.EqualFold(n, name) {
			return Family(f), true
		}
	}
	return Undefined, false
}

// Families returns every known family in declaration order.
func Families() []Family {
	return []Family{Axis, Jupiter, JupiterNumeric, Meidinger, MiedingerMid, TrumpGothic}
}

// FamilyAndSize is one pre-rasterized size of a family.
// The zero value is undefined.
type FamilyAndSize struct {
	Family Family
	index  int
}

// Sizes returns the native sizes of f in ascending order.
func Sizes(f Family) []FamilyAndSize {
	sizes := nativeSizes[f]
	out := make([]FamilyAndSize, len(sizes))
	for i := range sizes {
		out[i] = FamilyAndSize{Family: f, index: i}
	}
	return out
}

// Valid reports whether fas names a native size.
func (fas FamilyAndSize) Valid() bool {
	sizes := nativeSizes[fas.Family]
	return fas.index >= 0 && fas.index < len(sizes)
}

// SizePt returns the native size in points.
func (fas FamilyAndSize) SizePt() float32 {
	if !fas.Valid() {
		return 0
	}
	return nativeSizes[fas.Family][fas.index].pt
}

// SizePx returns the native size in pixels (points at 96 DPI).
func (fas FamilyAndSize) SizePx() float32 {
	return fas.SizePt() * 4 / 3
}

// FileName returns the layout file name of this size.
func (fas FamilyAndSize) FileName() string {
	if !fas.Valid() {
		return ""
	}
	return nativeSizes[fas.Family][fas.index].stem + ".fnt"
}

// String returns a name like "Axis12" or "TrumpGothic18.4".
func (fas FamilyAndSize) String() string {
	if !fas.Valid() {
		return "Undefined"
	}
	return fmt.Sprintf("%s%g", fas.Family, fas.SizePt())
}

// Recommend returns the native size of family to use for a request of pt
// points: the smallest native size whose pixel size, rounded, covers the
// request. Requests above the largest native size get the largest.
// It returns the zero FamilyAndSize for unknown families or pt <= 0.
func Recommend(family Family, pt float32) FamilyAndSize {
	sizes := nativeSizes[family]
	if len(sizes) == 0 || !(pt > 0) {
		return FamilyAndSize{}
	}
	for i, s := range sizes {
		threshold := float32(int(s.pt*4/3+0.5))*3/4 + 0.001
		if pt <= threshold {
			return FamilyAndSize{Family: family, index: i}
		}
	}
	return FamilyAndSize{Family: family, index: len(sizes) - 1}
}
