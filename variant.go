package fontatlas

import (
	"fmt"
	"strings"

	"github.com/go-text/typesetting/font"
)

var weightWords = []struct {
	word   string
	weight font.Weight
}{
	{"thin", font.WeightThin},
	{"extralight", font.WeightExtraLight},
	{"light", font.WeightLight},
	{"medium", font.WeightMedium},
	{"semibold", font.WeightSemibold},
	{"bold", font.WeightBold},
	{"extrabold", font.WeightExtraBold},
	{"black", font.WeightBlack},
}

// ParseVariant builds a font aspect from variant words such as "bold" or
// "italic". Unset fields keep their regular defaults.
func ParseVariant(words ...string) (font.Aspect, error) {
	var a font.Aspect
	for _, w := range words {
		switch w = strings.ToLower(w); w {
		case "normal", "regular":
			a.Weight = font.WeightNormal
		case "italic", "oblique":
			a.Style = font.StyleItalic
		case "condensed":
			a.Stretch = font.StretchCondensed
		case "expanded":
			a.Stretch = font.StretchExpanded
		default:
			found := false
			for _, ww := range weightWords {
				if ww.word == w {
					a.Weight = ww.weight
					found = true
					break
				}
			}
			if !found {
				return font.Aspect{}, fmt.Errorf("fontatlas: unknown font variant %q", w)
			}
		}
	}
	a.SetDefaults()
	return a, nil
}

// VariantWords describes the non-regular parts of a in the words accepted
// by ParseVariant. The regular aspect yields no words.
func VariantWords(a font.Aspect) []string {
	a.SetDefaults()
	var words []string
	for _, ww := range weightWords {
		if ww.weight == a.Weight {
			words = append(words, ww.word)
			break
		}
	}
	if a.Style == font.StyleItalic {
		words = append(words, "italic")
	}
	switch {
	case a.Stretch < font.StretchNormal:
		words = append(words, "condensed")
	case a.Stretch > font.StretchNormal:
		words = append(words, "expanded")
	}
	return words
}
