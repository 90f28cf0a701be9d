package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/taigrr/umbra/pkg/math3d"
)

// ErrUnsupportedTexture is returned for image files with an unknown extension.
var ErrUnsupportedTexture = errors.New("unsupported texture format")

// decoders picks a decoder by extension. image.Decode is not used: the tga
// package registers an empty magic string, which claims every file.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// texelEpsilon keeps u=1 and v=1 on the last texel instead of one past it.
const texelEpsilon = 0.001

// Texture is a decoded image kept as raw bytes.
//
// Pix is row-major with row 0 at the top of the image, as decoders produce
// it. The number of bytes per texel is not fixed: it is derived from
// len(Pix), so 1 (grey), 3 (RGB) and 4 (RGBA) layouts all sample correctly.
type Texture struct {
	Width  int
	Height int
	Pix    []byte
}

// Stride returns the number of bytes per texel.
func (t *Texture) Stride() int {
	if t.Width <= 0 || t.Height <= 0 {
		return 0
	}
	return len(t.Pix) / (t.Width * t.Height)
}

// Texel returns the byte offset of the texel sampled at uv. u and v are
// clamped to [0,1] and v grows upward, so (0,0) is the bottom-left texel.
func (t *Texture) Texel(uv math3d.Vec2) (i, j, offset int) {
	uv = uv.Clamp(0, 1)
	i = int(math.Floor(uv.X * (float64(t.Width) - texelEpsilon)))
	j = int(math.Floor(uv.Y * (float64(t.Height) - texelEpsilon)))
	offset = ((t.Height-1-j)*t.Width + i) * t.Stride()
	return i, j, offset
}

// Sample returns the nearest texel at uv as linear 0..1 RGB.
// A nil or empty texture samples as white.
func (t *Texture) Sample(uv math3d.Vec2) math3d.Vec3 {
	if t == nil || t.Stride() == 0 {
		return math3d.Splat3(1)
	}
	_, _, o := t.Texel(uv)
	switch t.Stride() {
	case 1, 2:
		return math3d.Splat3(float64(t.Pix[o]) / 255)
	default:
		return math3d.V3(float64(t.Pix[o])/255, float64(t.Pix[o+1])/255, float64(t.Pix[o+2])/255)
	}
}

// LoadTexture loads a texture from an image file. The format follows the
// extension: PNG, JPEG, GIF, BMP, TIFF, WebP and TGA are recognised.
func LoadTexture(path string) (*Texture, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedTexture)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage copies an image into a texture. Grey images keep one
// byte per texel, opaque images three and anything with alpha four.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	stride := 4
	switch m := img.(type) {
	case *image.Gray:
		stride = 1
	case interface{ Opaque() bool }:
		if m.Opaque() {
			stride = 3
		}
	}

	tex := &Texture{Width: w, Height: h, Pix: make([]byte, w*h*stride)}
	o := 0
	for y := range h {
		for x := range w {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			switch stride {
			case 1:
				tex.Pix[o] = c.R
			case 3:
				tex.Pix[o], tex.Pix[o+1], tex.Pix[o+2] = c.R, c.G, c.B
			default:
				tex.Pix[o], tex.Pix[o+1], tex.Pix[o+2], tex.Pix[o+3] = c.R, c.G, c.B, c.A
			}
			o += stride
		}
	}
	return tex
}

// NewSolidTexture returns a 1x1 RGB texture of a single colour.
func NewSolidTexture(c math3d.Vec3) *Texture {
	rgba := ToRGBA(c)
	return &Texture{Width: 1, Height: 1, Pix: []byte{rgba.R, rgba.G, rgba.B}}
}

// NewCheckerTexture creates a procedural RGB checkerboard.
func NewCheckerTexture(width, height, checkSize int, c1, c2 math3d.Vec3) *Texture {
	a, b := ToRGBA(c1), ToRGBA(c2)
	tex := &Texture{Width: width, Height: height, Pix: make([]byte, width*height*3)}
	for y := range height {
		for x := range width {
			c := a
			if (x/checkSize+y/checkSize)%2 != 0 {
				c = b
			}
			o := (y*width + x) * 3
			tex.Pix[o], tex.Pix[o+1], tex.Pix[o+2] = c.R, c.G, c.B
		}
	}
	return tex
}
