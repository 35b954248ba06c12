package compose

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type DrawTextOptions struct {
	ImagePath        string
	OutputPath       string
	Text             string
	TextColor        color.Color
	FontsDir         string
	Font             string
	FontSize         float64
	RectangleColor   color.Color
	RectanglePadding int
}

// DrawText centres Text on the image, over a solid rectangle that extends
// RectanglePadding pixels beyond the text box on every side.
func DrawText(opts DrawTextOptions) error {
	face, err := LoadFace(opts.FontsDir, opts.Font, opts.FontSize)
	if err != nil {
		return err
	}
	defer func() { _ = face.Close() }()

	src, err := Open(opts.ImagePath)
	if err != nil {
		return err
	}
	canvas := toRGBA(src)

	box, _ := font.BoundString(face, opts.Text)
	textW := (box.Max.X - box.Min.X).Ceil()
	textH := (box.Max.Y - box.Min.Y).Ceil()

	size := canvas.Bounds().Size()
	x := (size.X - textW) / 2
	y := (size.Y - textH) / 2

	pad := opts.RectanglePadding
	rect := image.Rect(x-pad, y-pad, x+textW+pad+1, y+textH+pad+1)
	draw.Draw(canvas, rect, image.NewUniform(opts.RectangleColor), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(opts.TextColor),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x) - box.Min.X, Y: fixed.I(y) - box.Min.Y},
	}
	d.DrawString(opts.Text)

	return Save(opts.OutputPath, canvas)
}

// LoadFace opens <dir>/<name>.ttf at the given point size.
func LoadFace(dir, name string, size float64) (font.Face, error) {
	path := filepath.Join(dir, name+".ttf")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", name, err)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}
