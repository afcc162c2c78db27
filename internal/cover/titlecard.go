package cover

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	cardBackground = color.RGBA{R: 0x1d, G: 0x24, B: 0x30, A: 0xff}
	cardForeground = color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}
)

// renderTitleCard draws a single still frame: solid background, the
// display title centered above the middle, the display date centered
// below it.
func renderTitleCard(canvas Canvas, title, date string) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, canvas.Width, canvas.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}

	titleSize := float64(canvas.Height) / 10
	dateSize := float64(canvas.Height) / 18

	titleFace, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size: titleSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	defer titleFace.Close()

	dateFace, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size: dateSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	defer dateFace.Close()

	mid := canvas.Height / 2
	drawCentered(img, titleFace, title, mid-int(titleSize/3))
	drawCentered(img, dateFace, date, mid+int(dateSize*2))
	return img, nil
}

// drawCentered draws one line of text horizontally centered with its
// baseline at y.
func drawCentered(img *image.RGBA, face font.Face, text string, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(cardForeground),
		Face: face,
	}
	width := d.MeasureString(text)
	x := (fixed.I(img.Bounds().Dx()) - width) / 2
	if x < 0 {
		x = 0
	}
	d.Dot = fixed.Point26_6{X: x, Y: fixed.I(y)}
	d.DrawString(text)
}
