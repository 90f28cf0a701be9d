package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/nfnt/resize"
)

// DrawImage draws img onto the screen using half blocks, two image rows per
// terminal row: ▀ with the upper pixel as foreground and the lower one as
// background.
func DrawImage(scr uv.Screen, area uv.Rectangle, img image.Image) {
	b := img.Bounds()
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := b.Min.Y + (row-area.Min.Y)*2
		if topY >= b.Max.Y {
			break
		}
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := b.Min.X + col - area.Min.X
			if x >= b.Max.X {
				break
			}
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: opaque(img.At(x, topY)),
				},
			}
			if botY < b.Max.Y {
				cell.Style.Bg = opaque(img.At(x, botY))
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// opaque drops alpha so terminals get a plain RGB colour.
func opaque(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
}

// Draw renders the target into area of the screen at its native size.
func (t *Target) Draw(scr uv.Screen, area uv.Rectangle) {
	DrawImage(scr, area, t.ToImage())
}

// Preview returns an ANSI rendering of the target cols cells wide. The
// image is downsampled first, keeping its aspect ratio.
func (t *Target) Preview(cols int) string {
	if cols <= 0 || t.Width == 0 || t.Height == 0 {
		return ""
	}
	img := t.ToImage()
	if cols < t.Width {
		img = toRGBA(resize.Resize(uint(cols), 0, img, resize.Bilinear))
	}

	b := img.Bounds()
	rows := (b.Dy() + 1) / 2
	buf := uv.NewScreenBuffer(b.Dx(), rows)
	DrawImage(buf, buf.Bounds(), img)
	return buf.Render()
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		for x := range b.Dx() {
			out.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}
