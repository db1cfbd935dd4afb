// Package screenshot burns highlight boxes into screenshot images, so
// vision-model consumers see the same identifiers the tree carries.
package screenshot

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/anxuanzi/domlens/dom"
)

// Config controls how boxes and labels are drawn.
type Config struct {
	// LineWidth is the border width of each box in pixels.
	LineWidth float64

	// FillAlpha is the opacity of the translucent interior fill, 0 to 1.
	FillAlpha float64

	// FontSize sizes the identifier label background.
	FontSize float64

	// OffsetX and OffsetY shift all boxes before drawing. Boxes arrive
	// in absolute document coordinates; a viewport screenshot of a
	// scrolled page needs the scroll offset here.
	OffsetX float64
	OffsetY float64
}

// DefaultConfig returns the standard annotation style.
func DefaultConfig() Config {
	return Config{LineWidth: 2, FillAlpha: 0.1, FontSize: 13}
}

// Annotate draws each highlight box and its identifier label over the
// screenshot and returns the result as PNG bytes. An empty box list
// returns the input unchanged.
func Annotate(img []byte, boxes []dom.HighlightBox, cfg Config) ([]byte, error) {
	if len(boxes) == 0 {
		return img, nil
	}

	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	dc := gg.NewContextForImage(src)
	for _, b := range boxes {
		r, g, bl, err := parseHexColor(b.Color)
		if err != nil {
			return nil, err
		}
		x := b.X - cfg.OffsetX
		y := b.Y - cfg.OffsetY

		dc.SetRGBA255(r, g, bl, int(cfg.FillAlpha*255))
		dc.DrawRectangle(x, y, b.Width, b.Height)
		dc.Fill()

		dc.SetRGB255(r, g, bl)
		dc.SetLineWidth(cfg.LineWidth)
		dc.DrawRectangle(x, y, b.Width, b.Height)
		dc.Stroke()

		labelW := float64(len(b.ID))*cfg.FontSize*0.7 + 6
		labelH := cfg.FontSize + 4
		lx := b.LabelX - cfg.OffsetX
		ly := b.LabelY - cfg.OffsetY
		dc.SetRGB255(r, g, bl)
		dc.DrawRectangle(lx, ly, labelW, labelH)
		dc.Fill()
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(b.ID, lx+labelW/2, ly+labelH/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode annotated screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

// parseHexColor parses a #RRGGBB palette color.
func parseHexColor(s string) (r, g, b int, err error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, fmt.Errorf("malformed highlight color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("malformed highlight color %q: %w", s, err)
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF), nil
}
