// Package bmp serializes a completed pixel buffer into an uncompressed
// 24-bit bitmap file. The layout is fixed: BITMAPFILEHEADER with a "PLMG"
// reserved marker, BITMAPINFOHEADER with a negative height (top-down row
// order), then BGR pixel rows padded to 4-byte multiples.
package bmp

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/taylordotfish/plumage/internal/pixel"
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40

	// PixelDataOffset is where the pixel array starts in the file.
	PixelDataOffset = fileHeaderSize + infoHeaderSize
)

// reserved fills the file header's reserved field. Decoders ignore it; it
// marks files produced by this generator.
var reserved = [4]byte{'P', 'L', 'M', 'G'}

// RowSize is the byte length of one encoded pixel row: three bytes per
// pixel, rounded up to a multiple of four.
func RowSize(width int) int {
	return (width*3 + 3) / 4 * 4
}

// channelByte converts a normalized channel to a byte via round(c*255),
// clamped to [0, 255].
func channelByte(c float64) byte {
	v := math.Round(c * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// EncodePixels converts the buffer to the bitmap pixel array: rows of BGR
// triples in top-down order, each row zero-padded to RowSize bytes. Every
// stored color's channels must be in [0, 1]; the generator's clamp and
// gamma passes guarantee that, and out-of-range values are clamped rather
// than left undefined.
func EncodePixels(buf *pixel.Buffer) []byte {
	dim := buf.Dimensions()
	rowSize := RowSize(dim.Width)
	padding := make([]byte, rowSize-dim.Width*3)

	out := make([]byte, 0, rowSize*dim.Height)
	data := buf.Data()
	for y := 0; y < dim.Height; y++ {
		row := data[y*dim.Width : (y+1)*dim.Width]
		for _, c := range row {
			out = append(out, channelByte(c.Blue), channelByte(c.Green), channelByte(c.Red))
		}
		out = append(out, padding...)
	}
	return out
}

// Encode writes the complete bitmap file to w. Failures come only from w;
// the encoding itself cannot fail.
func Encode(w io.Writer, buf *pixel.Buffer) error {
	dim := buf.Dimensions()
	pixels := EncodePixels(buf)

	var fileHeader [fileHeaderSize]byte
	fileHeader[0] = 'B'
	fileHeader[1] = 'M'
	binary.LittleEndian.PutUint32(fileHeader[2:6], uint32(PixelDataOffset+len(pixels)))
	copy(fileHeader[6:10], reserved[:])
	binary.LittleEndian.PutUint32(fileHeader[10:14], PixelDataOffset)

	var infoHeader [infoHeaderSize]byte
	binary.LittleEndian.PutUint32(infoHeader[0:4], infoHeaderSize)
	binary.LittleEndian.PutUint32(infoHeader[4:8], uint32(dim.Width))
	// Negative height marks top-down row order, matching the fill pass.
	binary.LittleEndian.PutUint32(infoHeader[8:12], uint32(-int32(dim.Height)))
	binary.LittleEndian.PutUint16(infoHeader[12:14], 1)  // color planes
	binary.LittleEndian.PutUint16(infoHeader[14:16], 24) // bits per pixel
	binary.LittleEndian.PutUint32(infoHeader[16:20], 0)  // compression
	binary.LittleEndian.PutUint32(infoHeader[20:24], 0)  // image data size
	binary.LittleEndian.PutUint32(infoHeader[24:28], 96) // horizontal resolution
	binary.LittleEndian.PutUint32(infoHeader[28:32], 96) // vertical resolution
	binary.LittleEndian.PutUint32(infoHeader[32:36], 0)  // palette colors
	binary.LittleEndian.PutUint32(infoHeader[36:40], 0)  // important colors

	if _, err := w.Write(fileHeader[:]); err != nil {
		return err
	}
	if _, err := w.Write(infoHeader[:]); err != nil {
		return err
	}
	if _, err := w.Write(pixels); err != nil {
		return err
	}
	return nil
}
