package compose

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func writeSolid(t *testing.T, dir, name string, size image.Point, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	if err := Save(path, img); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return path
}

func openRGBA(t *testing.T, path string) *image.RGBA {
	t.Helper()
	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return toRGBA(img)
}

func TestResizeToCanvas(t *testing.T) {
	tests := []struct {
		name    string
		src     image.Point
		wantTop int
		wantH   int
	}{
		{name: "widerThanCanvas", src: image.Pt(1920, 540), wantTop: 180, wantH: 360},
		{name: "roundsHeight", src: image.Pt(1000, 335), wantTop: 145, wantH: 429},
		{name: "sameAspect", src: image.Pt(640, 360), wantTop: 0, wantH: 720},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := writeSolid(t, dir, "in.png", tt.src, color.RGBA{R: 200, G: 10, B: 10, A: 255})
			out := filepath.Join(dir, "out.png")

			if err := ResizeToCanvas(in, out, DefaultCanvasSize); err != nil {
				t.Fatalf("ResizeToCanvas() error = %v", err)
			}

			img := openRGBA(t, out)
			if got := img.Bounds().Size(); got != DefaultCanvasSize {
				t.Fatalf("canvas size = %v, want %v", got, DefaultCanvasSize)
			}

			bottom := tt.wantTop + tt.wantH - 1
			if a := img.RGBAAt(640, tt.wantTop).A; a == 0 {
				t.Errorf("row %d should be covered", tt.wantTop)
			}
			if a := img.RGBAAt(640, bottom).A; a == 0 {
				t.Errorf("row %d should be covered", bottom)
			}
			if tt.wantTop > 0 {
				if a := img.RGBAAt(640, tt.wantTop-1).A; a != 0 {
					t.Errorf("row %d should be transparent, alpha = %d", tt.wantTop-1, a)
				}
			}
			if bottom+1 < DefaultCanvasSize.Y {
				if a := img.RGBAAt(640, bottom+1).A; a != 0 {
					t.Errorf("row %d should be transparent, alpha = %d", bottom+1, a)
				}
			}
		})
	}
}

func TestResizeToCanvasTallerCrops(t *testing.T) {
	dir := t.TempDir()
	in := writeSolid(t, dir, "in.png", image.Pt(640, 480), color.RGBA{G: 255, A: 255})
	out := filepath.Join(dir, "out.png")

	if err := ResizeToCanvas(in, out, DefaultCanvasSize); err != nil {
		t.Fatalf("ResizeToCanvas() error = %v", err)
	}

	img := openRGBA(t, out)
	for _, y := range []int{0, 719} {
		if a := img.RGBAAt(0, y).A; a == 0 {
			t.Errorf("row %d should be covered when the image overflows the canvas", y)
		}
	}
}

func TestResizeToCanvasMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := ResizeToCanvas(filepath.Join(dir, "nope.png"), filepath.Join(dir, "out.png"), DefaultCanvasSize)
	if err == nil {
		t.Error("expected error for missing input")
	}
}

func TestStack(t *testing.T) {
	tests := []struct {
		name   string
		fgSize image.Point
		bgSize image.Point
	}{
		{name: "defaults", fgSize: image.Point{}, bgSize: image.Point{}},
		{name: "wideForeground", fgSize: image.Pt(300, 100), bgSize: image.Pt(640, 360)},
		{name: "fullHeight", fgSize: image.Pt(200, 360), bgSize: image.Pt(640, 360)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			fg := writeSolid(t, dir, "fg.png", image.Pt(64, 64), color.RGBA{R: 255, A: 255})
			bg := writeSolid(t, dir, "bg.png", image.Pt(320, 180), color.RGBA{B: 255, A: 255})
			out := filepath.Join(dir, "out.png")

			err := Stack(StackOptions{
				ForegroundPath: fg,
				BackgroundPath: bg,
				OutputPath:     out,
				FgSize:         tt.fgSize,
				BgSize:         tt.bgSize,
			})
			if err != nil {
				t.Fatalf("Stack() error = %v", err)
			}

			fgSize, bgSize := tt.fgSize, tt.bgSize
			if fgSize == (image.Point{}) {
				fgSize = DefaultForegroundSize
			}
			if bgSize == (image.Point{}) {
				bgSize = DefaultCanvasSize
			}

			img := openRGBA(t, out)
			if got := img.Bounds().Size(); got != bgSize {
				t.Fatalf("output size = %v, want %v", got, bgSize)
			}

			isRed := func(x, y int) bool {
				c := img.RGBAAt(x, y)
				return c.R > 200 && c.B < 50
			}

			top := bgSize.Y - fgSize.Y
			if !isRed(0, bgSize.Y-1) {
				t.Error("bottom-left corner should be foreground")
			}
			if !isRed(fgSize.X-1, top) {
				t.Error("top-right of foreground box should be foreground")
			}
			if isRed(fgSize.X, bgSize.Y-1) {
				t.Error("pixel right of foreground should be background")
			}
			if top > 0 && isRed(0, top-1) {
				t.Error("pixel above foreground should be background")
			}
		})
	}
}

func TestStackTransparentForeground(t *testing.T) {
	dir := t.TempDir()
	fg := writeSolid(t, dir, "fg.png", image.Pt(32, 32), color.RGBA{})
	bg := writeSolid(t, dir, "bg.png", image.Pt(128, 72), color.RGBA{B: 255, A: 255})
	out := filepath.Join(dir, "out.png")

	if err := Stack(StackOptions{ForegroundPath: fg, BackgroundPath: bg, OutputPath: out}); err != nil {
		t.Fatalf("Stack() error = %v", err)
	}

	c := openRGBA(t, out).RGBAAt(10, 710)
	if c.B < 200 || c.R != 0 || c.A != 255 {
		t.Errorf("transparent foreground should leave background visible, got %+v", c)
	}
}

func writeFont(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "GoRegular.ttf"), goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestDrawText(t *testing.T) {
	fontsDir := writeFont(t)
	dir := t.TempDir()
	in := writeSolid(t, dir, "in.png", image.Pt(400, 200), color.RGBA{R: 255, G: 255, B: 255, A: 255})

	opts := DrawTextOptions{
		ImagePath:        in,
		OutputPath:       filepath.Join(dir, "out.png"),
		Text:             "Hello",
		TextColor:        color.RGBA{R: 255, A: 255},
		FontsDir:         fontsDir,
		Font:             "GoRegular",
		FontSize:         40,
		RectangleColor:   color.RGBA{A: 255},
		RectanglePadding: 10,
	}
	if err := DrawText(opts); err != nil {
		t.Fatalf("DrawText() error = %v", err)
	}

	img := openRGBA(t, opts.OutputPath)
	if c := img.RGBAAt(0, 0); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("corner should be untouched, got %+v", c)
	}
	if c := img.RGBAAt(200, 100); c.G == 255 && c.B == 255 {
		t.Errorf("centre should be covered by rectangle or text, got %+v", c)
	}

	var sawText, sawRect bool
	for x := 100; x < 300; x++ {
		c := img.RGBAAt(x, 100)
		if c.R > 200 && c.G < 50 {
			sawText = true
		}
		if c.R < 50 && c.G < 50 && c.B < 50 {
			sawRect = true
		}
	}
	if !sawText || !sawRect {
		t.Errorf("centre row should cross text and rectangle, text=%v rect=%v", sawText, sawRect)
	}
}

func TestDrawTextDeterministic(t *testing.T) {
	fontsDir := writeFont(t)
	dir := t.TempDir()
	in := writeSolid(t, dir, "in.png", image.Pt(320, 180), color.RGBA{G: 128, A: 255})

	render := func(name string) []byte {
		out := filepath.Join(dir, name)
		err := DrawText(DrawTextOptions{
			ImagePath:        in,
			OutputPath:       out,
			Text:             "Same input",
			TextColor:        color.RGBA{R: 250, G: 250, A: 255},
			FontsDir:         fontsDir,
			Font:             "GoRegular",
			FontSize:         24,
			RectangleColor:   color.RGBA{B: 90, A: 255},
			RectanglePadding: 20,
		})
		if err != nil {
			t.Fatalf("DrawText() error = %v", err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	if !bytes.Equal(render("a.png"), render("b.png")) {
		t.Error("identical inputs should produce identical output")
	}
}

func TestDrawTextMissingFont(t *testing.T) {
	dir := t.TempDir()
	in := writeSolid(t, dir, "in.png", image.Pt(10, 10), color.White)

	err := DrawText(DrawTextOptions{
		ImagePath:  in,
		OutputPath: filepath.Join(dir, "out.png"),
		Text:       "x",
		FontsDir:   dir,
		Font:       "Missing",
		FontSize:   12,
	})
	if err == nil {
		t.Error("expected error for missing font")
	}
}
