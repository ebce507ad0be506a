package gamefont

import "testing"

func TestRecommend(t *testing.T) {
	tests := []struct {
		family Family
		pt     float32
		want   string
	}{
		{Axis, 9, "Axis9.6"},
		{Axis, 9.75, "Axis9.6"},
		{Axis, 10.5, "Axis12"},
		{Axis, 12, "Axis12"},
		{Axis, 12.5, "Axis14"},
		{Axis, 100, "Axis36"},
		{Jupiter, 13.5, "Jupiter16"},
		{JupiterNumeric, 60, "JupiterNumeric90"},
		{Meidinger, 20, "Meidinger20"},
		{MiedingerMid, 1, "MiedingerMid10"},
		{TrumpGothic, 18.75, "TrumpGothic18.4"},
		{TrumpGothic, 19, "TrumpGothic23"},
		{Undefined, 12, "Undefined"},
		{Axis, 0, "Undefined"},
		{Axis, -3, "Undefined"},
	}
	for _, tt := range tests {
		if got := Recommend(tt.family, tt.pt).String(); got != tt.want {
			t.Errorf("Recommend(%v, %v) = %s, want %s", tt.family, tt.pt, got, tt.want)
		}
	}
}

func TestRecommendRoundTripsNativeSizes(t *testing.T) {
	// A native size requested at its own rounded pixel size must recommend itself.
	for _, f := range Families() {
		for _, fas := range Sizes(f) {
			px := float32(int(fas.SizePx() + 0.5))
			if got := Recommend(f, px*3/4); got != fas {
				t.Errorf("Recommend(%v, %vpx) = %v, want %v", f, px, got, fas)
			}
		}
	}
}

func TestFamilyAndSize(t *testing.T) {
	axis12 := Recommend(Axis, 12)
	if got := axis12.SizePx(); got != 16 {
		t.Errorf("Axis12 SizePx = %v, want 16", got)
	}
	if got := axis12.FileName(); got != "AXIS_12.fnt" {
		t.Errorf("Axis12 FileName = %q", got)
	}

	var undefined FamilyAndSize
	if undefined.Valid() || undefined.SizePx() != 0 || undefined.FileName() != "" {
		t.Errorf("zero FamilyAndSize = valid %v, px %v, file %q",
			undefined.Valid(), undefined.SizePx(), undefined.FileName())
	}
}

func TestParseFamily(t *testing.T) {
	tests := []struct {
		name string
		want Family
		ok   bool
	}{
		{"Axis", Axis, true},
		{"trumpgothic", TrumpGothic, true},
		{"MIEDINGERMID", MiedingerMid, true},
		{"Undefined", Undefined, false},
		{"Arial", Undefined, false},
	}
	for _, tt := range tests {
		got, ok := ParseFamily(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFamily(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFamilyString(t *testing.T) {
	if got := JupiterNumeric.String(); got != "JupiterNumeric" {
		t.Errorf("String = %q", got)
	}
	if got := Family(42).String(); got != "Family(42)" {
		t.Errorf("String = %q", got)
	}
	if Undefined.Valid() || !Axis.Valid() {
		t.Error("Valid mismatch")
	}
}
