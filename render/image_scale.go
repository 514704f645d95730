package render

import (
	stdimage "image"

	"golang.org/x/image/draw"

	"github.com/escp2doc/escp2doc/layout"
)

// scaleToBox resizes img's pixel buffer to exactly boxW x boxH dots using
// a bilinear resample before the dithering pass runs. A box matching the
// source's natural size is returned unchanged.
func scaleToBox(img *layout.Image, boxW, boxH int) *layout.Image {
	if boxW <= 0 || boxH <= 0 || img.Width <= 0 || img.Height <= 0 {
		return img
	}
	if boxW == img.Width && boxH == img.Height {
		return img
	}

	src := stdimage.NewGray(stdimage.Rect(0, 0, img.Width, img.Height))
	copy(src.Pix, img.Pixels)

	dst := stdimage.NewGray(stdimage.Rect(0, 0, boxW, boxH))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return &layout.Image{
		Pixels:    dst.Pix,
		Width:     boxW,
		Height:    boxH,
		Dithering: img.Dithering,
	}
}
