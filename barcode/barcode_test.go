package barcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escp2doc/escp2doc/barcode"
	"github.com/escp2doc/escp2doc/layout"
	"github.com/escp2doc/escp2doc/printer"
)

func TestValidateAcceptsWellFormedSymbologies(t *testing.T) {
	cases := []struct {
		typ  layout.BarcodeType
		data string
	}{
		{layout.UPCA, "01234567890"},
		{layout.UPCE, "123456"},
		{layout.EAN13, "012345678901"},
		{layout.EAN8, "0123456"},
		{layout.Code39, "HELLO-123"},
		{layout.ITF, "1234"},
		{layout.Codabar, "A123B"},
		{layout.Code128, "anything"},
	}
	for _, c := range cases {
		assert.NoError(t, barcode.Validate(c.typ, c.data), "type %v data %q", c.typ, c.data)
	}
}

func TestValidateRejectsMalformedSymbologies(t *testing.T) {
	cases := []struct {
		name string
		typ  layout.BarcodeType
		data string
	}{
		{"upcA_wrong_length", layout.UPCA, "123"},
		{"upcA_non_digit", layout.UPCA, "abcdefghijk"},
		{"ean13_wrong_length", layout.EAN13, "123"},
		{"code39_lowercase", layout.Code39, "hello"},
		{"itf_odd_digits", layout.ITF, "123"},
		{"codabar_no_start_char", layout.Codabar, "123"},
		{"code128_empty", layout.Code128, ""},
		{"unknown_type", layout.BarcodeType(99), "123"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Error(t, barcode.Validate(c.typ, c.data))
		})
	}
}

func TestEncodeProducesGSKFramingWithLengthPrefix(t *testing.T) {
	b := &layout.Barcode{Type: layout.Code39, Data: "ABC123", ModuleWidth: 2, Height: 100, HRIPosition: layout.HRIBelow}
	out, err := barcode.Encode(b)
	require.NoError(t, err)

	want := []byte{0x1D, 'w', 2}
	assert.Equal(t, want, out[0:3], "GS w sets module width")
	assert.Equal(t, []byte{0x1D, 'h', 100}, out[3:6], "GS h sets bar height")
	assert.Equal(t, []byte{0x1D, 'H', byte(layout.HRIBelow)}, out[6:9], "GS H sets HRI position")
	assert.Equal(t, []byte{0x1D, 'f', 0}, out[9:12], "GS f sets HRI font, font A for a non-condensed style")
	assert.Equal(t, byte(0x1D), out[12])
	assert.Equal(t, byte('k'), out[13])
	assert.Equal(t, byte(len(b.Data)), out[15], "length byte matches payload size for a non-Code128 symbology")
	assert.Equal(t, "ABC123", string(out[16:]))
}

func TestEncodeSelectsHRIFontBWhenHRIFontIsCondensed(t *testing.T) {
	b := &layout.Barcode{Type: layout.Code39, Data: "A", HRIFont: printer.Style{Condensed: true}}
	out, err := barcode.Encode(b)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1D, 'f', 1}, out[9:12], "GS f selects font B when the HRI style is condensed")
}

func TestEncodeCode128PrependsCodeSetBSelectorWhenAbsent(t *testing.T) {
	b := &layout.Barcode{Type: layout.Code128, Data: "HELLO"}
	out, err := barcode.Encode(b)
	require.NoError(t, err)
	payload := out[len(out)-7:] // "{BHELLO" is 7 bytes
	assert.Equal(t, "{BHELLO", string(payload))
}

func TestEncodeCode128LeavesExplicitCodeSetPrefixAlone(t *testing.T) {
	b := &layout.Barcode{Type: layout.Code128, Data: "{CHELLO"}
	out, err := barcode.Encode(b)
	require.NoError(t, err)
	assert.Equal(t, "{CHELLO", string(out[len(out)-len(b.Data):]))
}

func TestEncodeDefaultsModuleWidthAndHeightWhenUnset(t *testing.T) {
	b := &layout.Barcode{Type: layout.EAN13, Data: "012345678901"}
	out, err := barcode.Encode(b)
	require.NoError(t, err)
	assert.Equal(t, byte(2), out[2], "default module width")
	assert.Equal(t, byte(162), out[5], "default bar height")
}

func TestEncodeRejectsInvalidData(t *testing.T) {
	b := &layout.Barcode{Type: layout.UPCA, Data: "not-digits"}
	_, err := barcode.Encode(b)
	assert.Error(t, err)
}

func TestEncodeClampsOutOfRangeModuleWidthAndHeight(t *testing.T) {
	b := &layout.Barcode{Type: layout.Code39, Data: "A", ModuleWidth: 1000, Height: -5}
	out, err := barcode.Encode(b)
	require.NoError(t, err)
	assert.Equal(t, byte(255), out[2], "module width clamps to byte range")
	assert.Equal(t, byte(162), out[5], "non-positive height falls back to the default")
}
