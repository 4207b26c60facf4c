package utils

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"tcepreview/config"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// Social-preview canvas, the 1.91:1 size every crawler expects.
const (
	ogWidth  = 1200
	ogHeight = 630
)

var (
	ogFontMu     sync.Mutex
	ogParsedFont *truetype.Font
	ogFontLoaded bool
	ogFaces      = map[float64]font.Face{}
)

// ogFace returns a cached face at the given size, or nil when no font is
// configured. A nil face falls back to gg's builtin bitmap font so the
// route keeps working on hosts without the font file.
func ogFace(size float64) font.Face {
	ogFontMu.Lock()
	defer ogFontMu.Unlock()

	if !ogFontLoaded {
		ogFontLoaded = true
		path := config.AppConfig.OGFontPath
		if path != "" {
			if raw, err := os.ReadFile(path); err == nil {
				if parsed, err := truetype.Parse(raw); err == nil {
					ogParsedFont = parsed
				}
			}
		}
	}
	if ogParsedFont == nil {
		return nil
	}

	if face, ok := ogFaces[size]; ok {
		return face
	}
	face := truetype.NewFace(ogParsedFont, &truetype.Options{Size: size})
	ogFaces[size] = face
	return face
}

func setFace(dc *gg.Context, size float64) {
	if face := ogFace(size); face != nil {
		dc.SetFontFace(face)
	}
}

// RenderOGImage draws the social-preview card for an asset page: badge,
// wrapped title, optional grade and book pills on a dark gradient.
func RenderOGImage(title, grade, book string) ([]byte, error) {
	if title == "" {
		title = "TCE Preview"
	}

	dc := gg.NewContext(ogWidth, ogHeight)

	grad := gg.NewLinearGradient(0, 0, ogWidth, ogHeight)
	grad.AddColorStop(0, parseHex("#0a0a0a"))
	grad.AddColorStop(0.5, parseHex("#1a1a2e"))
	grad.AddColorStop(1, parseHex("#16213e"))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, ogWidth, ogHeight)
	dc.Fill()

	// Badge
	setFace(dc, 20)
	badgeText := "TCE Preview"
	bw, bh := dc.MeasureString(badgeText)
	dc.SetRGBA(1, 1, 1, 0.15)
	dc.DrawRoundedRectangle(80, 90, bw+32, bh+20, 8)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawString(badgeText, 96, 90+bh+8)

	// Title, smaller face once it gets long
	titleSize := 48.0
	if len(title) > 60 {
		titleSize = 36
	}
	setFace(dc, titleSize)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringWrapped(title, 80, 180, 0, 0, 900, 1.2, gg.AlignLeft)

	// Grade and book pills
	pillY := float64(ogHeight - 140)
	pillX := 80.0
	if grade != "" {
		pillX = drawPill(dc, fmt.Sprintf("Grade %s", grade), pillX, pillY, 22)
	}
	if book != "" {
		drawPill(dc, book, pillX, pillY, 20)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode og image: %w", err)
	}
	return buf.Bytes(), nil
}

// drawPill renders one rounded chip and returns the x where the next one
// should start.
func drawPill(dc *gg.Context, text string, x, y, size float64) float64 {
	setFace(dc, size)
	tw, th := dc.MeasureString(text)
	if tw > 700 {
		tw = 700
	}

	dc.SetRGBA(1, 1, 1, 0.1)
	dc.DrawRoundedRectangle(x, y, tw+40, th+24, (th+24)/2)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.Push()
	dc.DrawRectangle(x+20, y, tw, th+24)
	dc.Clip()
	dc.DrawString(text, x+20, y+th+10)
	dc.Pop()

	return x + tw + 40 + 16
}

func parseHex(s string) colorRGB {
	var r, g, b uint8
	fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
	return colorRGB{r, g, b}
}

type colorRGB struct{ r, g, b uint8 }

func (c colorRGB) RGBA() (uint32, uint32, uint32, uint32) {
	return uint32(c.r) * 0x101, uint32(c.g) * 0x101, uint32(c.b) * 0x101, 0xffff
}
