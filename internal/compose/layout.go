package compose

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

var (
	DefaultCanvasSize     = image.Pt(1280, 720)
	DefaultForegroundSize = image.Pt(420, 420)
)

// ResizeToCanvas scales the image at in to the canvas width, keeping its
// aspect ratio, and centres it on a transparent canvas. Rows that overflow the
// canvas are cropped evenly from top and bottom.
func ResizeToCanvas(in, out string, canvas image.Point) error {
	src, err := Open(in)
	if err != nil {
		return err
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return fmt.Errorf("resize %s: empty image", in)
	}

	width := canvas.X
	height := int(math.Round(float64(b.Dy()) * float64(width) / float64(b.Dx())))
	if height < 1 {
		height = 1
	}
	resized := resize(src, image.Pt(width, height))

	dst := image.NewRGBA(image.Rect(0, 0, canvas.X, canvas.Y))
	offset := image.Pt((canvas.X-width)/2, (canvas.Y-height)/2)
	draw.Draw(dst, resized.Bounds().Add(offset), resized, image.Point{}, draw.Src)

	return Save(out, dst)
}

type StackOptions struct {
	ForegroundPath string
	BackgroundPath string
	OutputPath     string
	FgSize         image.Point
	BgSize         image.Point
}

// Stack resizes both images to their target sizes and composites the
// foreground, through its own alpha, onto the bottom-left corner of the
// background.
func Stack(opts StackOptions) error {
	fgSize, bgSize := opts.FgSize, opts.BgSize
	if fgSize == (image.Point{}) {
		fgSize = DefaultForegroundSize
	}
	if bgSize == (image.Point{}) {
		bgSize = DefaultCanvasSize
	}

	fgSrc, err := Open(opts.ForegroundPath)
	if err != nil {
		return err
	}
	bgSrc, err := Open(opts.BackgroundPath)
	if err != nil {
		return err
	}

	fg := resize(fgSrc, fgSize)
	bg := resize(bgSrc, bgSize)

	layer := image.NewRGBA(bg.Bounds())
	at := image.Pt(0, bgSize.Y-fgSize.Y)
	// Over keeps fg alpha as is; a masked paste would also scale alpha by itself.
	draw.Draw(layer, fg.Bounds().Add(at), fg, image.Point{}, draw.Over)

	draw.Draw(bg, bg.Bounds(), layer, image.Point{}, draw.Over)

	return Save(opts.OutputPath, bg)
}
