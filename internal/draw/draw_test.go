package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	var out bytes.Buffer

	c.Render(&out) // first frame paints every cell
	out.Reset()

	c.Render(&out)
	if out.Len() != 0 {
		t.Fatalf("unchanged frame wrote %q", out.String())
	}

	c.SetFloat(2, 2, ColorPlayer)
	c.Render(&out)
	if !strings.ContainsRune(out.String(), BlockUpperHalf) {
		t.Fatalf("expected an upper half block, got %q", out.String())
	}
	if !strings.Contains(out.String(), ColorPlayer.FG()) {
		t.Fatalf("expected player color escape, got %q", out.String())
	}

	out.Reset()
	c.Clear()
	c.Render(&out)
	if !strings.Contains(out.String(), " ") {
		t.Fatalf("cleared pixel should be overwritten with a space, got %q", out.String())
	}
}

func TestMarkTextDirtyForcesRewrite(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	var out bytes.Buffer
	c.Render(&out)
	out.Reset()

	c.MarkTextDirty(3, 2, 4)
	c.Render(&out)
	if got := strings.Count(out.String(), "\033["); got < 4 {
		t.Fatalf("expected 4 rewritten cells, got output %q", out.String())
	}

	out.Reset()
	c.ForceRedraw()
	c.Render(&out)
	if got := strings.Count(out.String(), "H"); got < 50 {
		t.Fatalf("ForceRedraw should rewrite all 50 cells, saw %d cursor moves", got)
	}
}

func TestTwoColorCellUsesBackground(t *testing.T) {
	c := NewScaledCanvas(1, 1, 1, 2)
	c.SetFloat(0, 0, ColorPlayer)
	c.SetFloat(0, 1, ColorRocket)
	var out bytes.Buffer
	c.Render(&out)
	if !strings.Contains(out.String(), ColorRocket.BG()) {
		t.Fatalf("expected background escape for the lower pixel, got %q", out.String())
	}
}

func TestFillCircleSetsAtLeastOnePixel(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	c.FillCircle(50, 50, 0.1, ColorHeavyBullet)
	n := 0
	for _, p := range c.pixels {
		if !p.IsZero() {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("tiny circle set %d pixels, want 1", n)
	}
}

func TestDrawPolygonFilled(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.DrawPolygon([]Point{{1, 1}, {8, 1}, {8, 8}, {1, 8}}, true, ColorRocket)
	if c.pixels[4*10+4].IsZero() {
		t.Fatal("polygon interior not filled")
	}
	if !c.pixels[0].IsZero() {
		t.Fatal("pixel outside polygon was set")
	}
}

func TestColorScale(t *testing.T) {
	got := Color{R: 200, G: 100, B: 0}.Scale(0.5)
	if got != (Color{R: 100, G: 50, B: 0}) {
		t.Fatalf("Scale(0.5) = %+v", got)
	}
	if (Color{R: 10}).Scale(0).IsZero() {
		t.Fatal("a visible color must not scale to the empty color")
	}
}

func TestChunkWriterAppliesOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 3, 2)
	cw.WriteAt(1, 1, "hi")
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "\033[3;4Hhi" {
		t.Fatalf("got %q", out.String())
	}
}
