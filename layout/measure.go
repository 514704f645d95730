package layout

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/escp2doc/escp2doc/printer"
)

// Size is a measured extent in dots.
type Size struct{ W, H int }

// lineHeight is the vertical advance of one text line at the base 360 DPI
// reference grid: 1/6" line spacing (the ESC/P2 power-on default), doubled
// under DoubleHeight.
func lineHeight(st printer.Style) int {
	const oneSixthInch = 60 // dots at 360 DPI: 360/6
	if st.DoubleHeight {
		return oneSixthInch * 2
	}
	return oneSixthInch
}

// charAdvance returns one grapheme cluster's per-character pitch in dots
// under st: the style's HMI, doubled for DoubleWidth. Inter-character
// spacing is added separately, once per gap, by MeasureText.
func charAdvance(st printer.Style) int {
	hmi := st.HMI()
	if st.DoubleWidth {
		hmi *= 2
	}
	return hmi
}

// MeasureText returns the width in dots that content would occupy on a
// single unwrapped line under style st: the sum of each grapheme
// cluster's character advance plus inter-character spacing between them.
func MeasureText(content string, st printer.Style) int {
	if content == "" {
		return 0
	}
	n := uniseg.GraphemeClusterCount(content)
	w := n * charAdvance(st)
	if n > 1 {
		w += st.InterCharSpace * (n - 1)
	}
	return w
}

// TextAdvance returns the cursor movement printing content produces on
// the wire. Unlike MeasureText, the intercharacter space also follows the
// final glyph, because the printer applies it after every character.
func TextAdvance(content string, st printer.Style) int {
	n := uniseg.GraphemeClusterCount(content)
	if n == 0 {
		return 0
	}
	return n * (charAdvance(st) + st.InterCharSpace)
}

// WrapText greedily wraps content into lines no wider than maxWidth dots,
// breaking at word boundaries and falling back to grapheme-cluster splits
// for a single overlong word, adapted from proportional font measurement
// to the fixed per-character HMI advance a dot-matrix printer uses.
func WrapText(content string, st printer.Style, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{content}
	}
	adv := charAdvance(st)
	if adv <= 0 {
		return []string{content}
	}
	maxClusters := maxWidth / adv
	if maxClusters < 1 {
		maxClusters = 1
	}

	var out []string
	for _, para := range strings.Split(normalizeNewlines(content), "\n") {
		out = append(out, wrapParagraph(para, maxClusters)...)
	}
	return out
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

func wrapParagraph(p string, maxClusters int) []string {
	if p == "" {
		return []string{""}
	}
	words := strings.Fields(p)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur []string
	curLen := 0 // clusters, including single spaces between words

	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, strings.Join(cur, " "))
			cur = nil
			curLen = 0
		}
	}

	for _, w := range words {
		wLen := uniseg.GraphemeClusterCount(w)
		if wLen > maxClusters {
			flush()
			lines = append(lines, splitLongWord(w, maxClusters)...)
			continue
		}
		extra := wLen
		if len(cur) > 0 {
			extra++ // joining space
		}
		if curLen+extra > maxClusters {
			flush()
			cur = append(cur, w)
			curLen = wLen
			continue
		}
		cur = append(cur, w)
		curLen += extra
	}
	flush()
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func splitLongWord(w string, maxClusters int) []string {
	clusters, offs := graphemeOffsets(w)
	var out []string
	start := 0
	for start < len(clusters) {
		end := start + maxClusters
		if end > len(clusters) {
			end = len(clusters)
		}
		out = append(out, w[offs[start]:offs[end]])
		start = end
	}
	return out
}

func graphemeOffsets(s string) (clusters []string, offsets []int) {
	g := uniseg.NewGraphemes(s)
	offsets = append(offsets, 0)
	for g.Next() {
		cl := g.Str()
		clusters = append(clusters, cl)
		offsets = append(offsets, offsets[len(offsets)-1]+len(cl))
	}
	return clusters, offsets
}

// MeasureContext carries the paper configuration and ambient style a
// node's intrinsic size is measured against, specialised to a single fixed glyph
// grid per style (there is no proportional font metrics table here).
type MeasureContext struct {
	Paper printer.PaperConfig
	Style printer.Style // resolved ambient style (root Merge chain)
}

// intrinsicSize computes the natural (unconstrained) size of a node, used
// by the flex solver as the "auto" basis for width/height and flex-basis
// resolution.
func intrinsicSize(n Node, style printer.Style, availWidth int) Size {
	switch t := n.(type) {
	case *Text:
		st := style.Merge(t.Style)
		return Size{W: MeasureText(t.Content, st), H: lineHeight(st)}

	case *Line:
		st := style.Merge(t.Style)
		length := t.Length
		if t.Fill {
			length = availWidth
		}
		return Size{W: length, H: lineHeight(st)}

	case *Spacer:
		return Size{W: t.Size, H: 0}

	case *Image:
		return Size{W: t.Width, H: t.Height}

	case *Barcode:
		return Size{W: estimateBarcodeWidth(t), H: t.Height}

	case *Stack:
		return stackIntrinsicSize(t, style, availWidth)

	case *Flex:
		return flexIntrinsicSize(t, style, availWidth)

	case *Grid:
		return gridIntrinsicSize(t, style, availWidth)

	default:
		return Size{}
	}
}

// estimateBarcodeWidth approximates a Code128-class symbology's printed
// width: 11 modules per data character plus a 20-module quiet zone,
// whatever the barcode's symbology.
func estimateBarcodeWidth(b *Barcode) int {
	mw := b.ModuleWidth
	if mw <= 0 {
		mw = 2
	}
	quietZone := 20 * mw
	return len(b.Data)*11*mw + quietZone
}
