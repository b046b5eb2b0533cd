package layout

import (
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

// fixedMeasurer gives every rune half the font size.
type fixedMeasurer struct{}

func (fixedMeasurer) Measure(text string, st TextStyle) float64 {
	return float64(utf8.RuneCountInString(text)) * st.Size / 2
}

func lineTexts(f *Frame) []string {
	out := make([]string, len(f.Lines))
	for i, l := range f.Lines {
		out[i] = l.Text
	}
	return out
}

func TestWrapBreaksAtSpacesAndCJK(t *testing.T) {
	e := engine{m: fixedMeasurer{}}
	st := TextStyle{Size: 10}

	tests := []struct {
		name string
		text string
		maxW float64
		want []string
	}{
		{"fits", "hello world", 100, []string{"hello world"}},
		{"breaks at space", "hello world again", 50, []string{"hello", "world", "again"}},
		{"collapses whitespace", "a  \n b", 100, []string{"a b"}},
		{"long word overflows alone", "supercalifragilistic x", 20, []string{"supercalifragilistic", "x"}},
		{"cjk", "技術筆記心得", 15, []string{"技術筆", "記心得"}},
		{"no limit", "one two three", 1e9, []string{"one two three"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, l := range e.wrap(tt.text, st, tt.maxW) {
				got = append(got, l.text)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("wrap mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestColumnSpaceBetween(t *testing.T) {
	text := Style{FontSize: 10, LineHeight: 1}
	root := Box("root", Style{Width: 200, Height: 100, Padding: Uniform(10), Direction: Column, Justify: JustifySpaceBetween},
		Text("top", text, "top"),
		Text("bottom", text, "bottom"),
	)
	f := Compute(root, fixedMeasurer{})
	if len(f.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(f.Children))
	}
	top, bottom := f.Children[0], f.Children[1]
	if top.Y != 10 || top.X != 10 || top.W != 180 {
		t.Errorf("top frame = %+v", top)
	}
	if bottom.Y+bottom.H != 90 {
		t.Errorf("bottom should end at content edge, got y=%v h=%v", bottom.Y, bottom.H)
	}
}

func TestColumnGrowAndCenter(t *testing.T) {
	text := Style{FontSize: 10, LineHeight: 1}
	root := Box("root", Style{Width: 100, Height: 100, Direction: Column},
		Text("header", text, "h"),
		Box("middle", Style{Direction: Column, Grow: 1, Justify: JustifyCenter},
			Text("title", text, "t"),
		),
	)
	f := Compute(root, fixedMeasurer{})
	middle := f.Children[1]
	if middle.Y != 10 || middle.H != 90 {
		t.Errorf("middle should grow to fill: y=%v h=%v", middle.Y, middle.H)
	}
	title := middle.Children[0]
	if want := 10 + (90-10)/2.0; title.Y != want {
		t.Errorf("title y = %v, want %v", title.Y, want)
	}
}

func TestRowWrapWithGap(t *testing.T) {
	chip := Style{FontSize: 10, LineHeight: 1, Padding: Symmetric(0, 5)}
	root := Box("root", Style{Width: 100, Direction: Column},
		Box("tags", Style{Direction: Row, Wrap: true, Gap: 10},
			Text("a", chip, "aaaa"), // 30
			Text("b", chip, "bbbb"), // 30
			Text("c", chip, "cccc"), // 30, wraps
		),
	)
	f := Compute(root, fixedMeasurer{})
	tags := f.Children[0]
	if len(tags.Children) != 3 {
		t.Fatalf("chips = %d", len(tags.Children))
	}
	a, b, c := tags.Children[0], tags.Children[1], tags.Children[2]
	if a.X != 0 || b.X != 40 {
		t.Errorf("first line x = %v, %v; want 0, 40", a.X, b.X)
	}
	if c.X != 0 || c.Y != 20 {
		t.Errorf("wrapped chip at (%v, %v), want (0, 20)", c.X, c.Y)
	}
	if tags.H != 30 {
		t.Errorf("tags height = %v, want 30", tags.H)
	}
}

func TestMaxWidthLimitsWrapping(t *testing.T) {
	root := Box("root", Style{Width: 1000, Direction: Column},
		Text("desc", Style{FontSize: 10, LineHeight: 1, MaxWidth: 60}, "one two three four"),
	)
	f := Compute(root, fixedMeasurer{})
	desc := f.Children[0]
	if desc.W != 60 {
		t.Errorf("width = %v, want 60", desc.W)
	}
	if diff := cmp.Diff([]string{"one two", "three four"}, lineTexts(desc)); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if desc.H != 20 {
		t.Errorf("height = %v, want 20", desc.H)
	}
}

func TestAbsoluteChildOutOfFlow(t *testing.T) {
	root := Box("root", Style{Width: 200, Height: 100, Padding: Uniform(20), Direction: Column},
		Box("bar", Style{Absolute: true, Height: 4}),
		Text("title", Style{FontSize: 10}, "x"),
	)
	f := Compute(root, fixedMeasurer{})
	bar := f.Children[0]
	if bar.X != 0 || bar.Y != 0 || bar.W != 200 || bar.H != 4 {
		t.Errorf("bar frame = %+v", bar)
	}
	if title := f.Children[1]; title.Y != 20 {
		t.Errorf("title y = %v, want 20", title.Y)
	}
}

func TestRowAlignCenter(t *testing.T) {
	root := Box("row", Style{Width: 100, Height: 50, Direction: Row, Align: AlignCenter},
		Text("label", Style{FontSize: 10, LineHeight: 1}, "ab"),
	)
	f := Compute(root, fixedMeasurer{})
	label := f.Children[0]
	if label.Y != 20 {
		t.Errorf("label y = %v, want 20", label.Y)
	}
	if label.W != 10 {
		t.Errorf("label width = %v, want 10", label.W)
	}
}
