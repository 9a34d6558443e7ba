package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

var ErrUnknownFormat = errors.New("texture: unknown image format")

// Formats are chosen by content, never by extension: .sph and .spa sphere
// maps are BMPs in practice, and many models ship PNGs named .bmp.
// TGA has no signature and is tried last.
var formats = []struct {
	name   string
	match  func(b []byte) bool
	decode func(r io.Reader) (image.Image, error)
}{
	{"png", prefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"jpeg", prefix("\xff\xd8"), jpeg.Decode},
	{"gif", prefix("GIF8"), gif.Decode},
	{"bmp", prefix("BM"), bmp.Decode},
	{"webp", func(b []byte) bool {
		return len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP"
	}, webp.Decode},
	{"tga", func([]byte) bool { return true }, tga.Decode},
}

func prefix(magic string) func([]byte) bool {
	return func(b []byte) bool {
		return bytes.HasPrefix(b, []byte(magic))
	}
}

// Decode sniffs data and decodes it to NRGBA.
func Decode(data []byte) (*image.NRGBA, string, error) {
	for _, f := range formats {
		if !f.match(data) {
			continue
		}
		img, err := f.decode(bytes.NewReader(data))
		if err != nil {
			if f.name == "tga" {
				return nil, "", ErrUnknownFormat
			}
			return nil, f.name, fmt.Errorf("texture: decode %s: %w", f.name, err)
		}
		return toNRGBA(img), f.name, nil
	}
	return nil, "", ErrUnknownFormat
}

// Load reads and decodes the image file at path.
func Load(path string) (*image.NRGBA, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, format, err := Decode(raw)
	if err != nil {
		return nil, format, fmt.Errorf("%s: %w", path, err)
	}
	return img, format, nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}
