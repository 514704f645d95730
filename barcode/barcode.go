// Package barcode encodes layout.Barcode nodes into GS-k byte framing.
// ESC/P2 itself has no native barcode command; the framing is adopted
// from the sibling ESC/POS protocol's "function B" form (explicit length
// byte, no NUL terminator).
package barcode

import (
	"regexp"

	"github.com/escp2doc/escp2doc/escperr"
	"github.com/escp2doc/escp2doc/layout"
	"github.com/escp2doc/escp2doc/printer"
)

const (
	gs = 0x1D
	k  = 'k'
	w  = 'w'
	h  = 'h'
	hr = 'H'
	f  = 'f'
)

// symbology maps a layout.BarcodeType to its GS-k function-B selector byte.
var symbology = map[layout.BarcodeType]byte{
	layout.UPCA:    65,
	layout.UPCE:    66,
	layout.EAN13:   67,
	layout.EAN8:    68,
	layout.Code39:  69,
	layout.ITF:     70,
	layout.Codabar: 71,
	layout.Code128: 73,
}

var (
	digits      = regexp.MustCompile(`^[0-9]+$`)
	code39Chars = regexp.MustCompile(`^[0-9A-Z \-.$/+%]+$`)
	codabarEdge = regexp.MustCompile(`^[A-Da-d]`)
)

// Validate checks data against the length/charset constraints for type,
// filled in per the standard definition of each symbology.
func Validate(t layout.BarcodeType, data string) error {
	switch t {
	case layout.UPCA:
		if !digits.MatchString(data) || (len(data) != 11 && len(data) != 12) {
			return escperr.Validationf("data", data, "UPC-A requires 11 or 12 digits")
		}
	case layout.UPCE:
		if !digits.MatchString(data) || len(data) < 6 || len(data) > 8 {
			return escperr.Validationf("data", data, "UPC-E requires 6 to 8 digits")
		}
	case layout.EAN13:
		if !digits.MatchString(data) || (len(data) != 12 && len(data) != 13) {
			return escperr.Validationf("data", data, "EAN-13 requires 12 or 13 digits")
		}
	case layout.EAN8:
		if !digits.MatchString(data) || (len(data) != 7 && len(data) != 8) {
			return escperr.Validationf("data", data, "EAN-8 requires 7 or 8 digits")
		}
	case layout.Code39:
		if !code39Chars.MatchString(data) {
			return escperr.Validationf("data", data, "Code 39 supports only 0-9 A-Z space - . $ / + %%")
		}
	case layout.ITF:
		if !digits.MatchString(data) || len(data)%2 != 0 {
			return escperr.Validationf("data", data, "Interleaved 2-of-5 requires an even count of digits")
		}
	case layout.Codabar:
		if !codabarEdge.MatchString(data) {
			return escperr.Validationf("data", data, "Codabar requires a leading start character A-D")
		}
	case layout.Code128:
		if data == "" {
			return escperr.Validationf("data", data, "Code 128 requires non-empty data")
		}
	default:
		return escperr.Validationf("type", t, "unsupported barcode symbology")
	}
	return nil
}

// Encode renders b's GS-w (module width), GS-h (bar height), GS-H (HRI
// position), GS-f (HRI font) setup commands followed by the GS-k symbology
// payload.
func Encode(b *layout.Barcode) ([]byte, error) {
	if err := Validate(b.Type, b.Data); err != nil {
		return nil, err
	}
	sel, ok := symbology[b.Type]
	if !ok {
		return nil, escperr.Validationf("type", b.Type, "unsupported barcode symbology")
	}

	mw := b.ModuleWidth
	if mw <= 0 {
		mw = 2
	}
	height := b.Height
	if height <= 0 {
		height = 162 // ~0.45" at 360 DPI, a typical default bar height
	}

	data := b.Data
	if b.Type == layout.Code128 && (len(data) < 2 || data[0] != '{') {
		data = "{B" + data
	}

	out := make([]byte, 0, 16+len(data))
	out = append(out, gs, w, byte(clampByte(mw)))
	out = append(out, gs, h, byte(clampByte(height)))
	out = append(out, gs, hr, byte(b.HRIPosition))
	out = append(out, gs, f, hriFontSelect(b.HRIFont))
	out = append(out, gs, k, sel, byte(len(data)))
	out = append(out, data...)
	return out, nil
}

// hriFontSelect maps the HRI text's style to a GS-f font selector: 0 for
// font A (the normal-width default), 1 for font B, the narrower font used
// whenever the caller asked for condensed printing on the HRI line.
func hriFontSelect(s printer.Style) byte {
	if s.Condensed {
		return 1
	}
	return 0
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
