// Package bmp serializes an in-memory raster to the 24-bit Windows BMP
// file format (spec.md §4.J, a declared out-of-scope "pure sink" — but
// still part of this repository so `fractal render` has somewhere to
// write). The byte layout is grounded exactly on the original
// interpreter's Bitmap.c: a 14-byte file header, a 40-byte
// BITMAPINFOHEADER, then row-major B-G-R triples padded to a multiple
// of 4 bytes per row, written in pixel-buffer order (row 0 first — the
// same non-flipped orientation the render context's coordinate mapping
// already commits to, spec.md §9 open question (c)).
package bmp

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fractal-lang/fractal/runtime/raster"
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40
	pixelOffset    = fileHeaderSize + infoHeaderSize
)

// Write encodes b as a 24-bit BMP and writes it to w.
func Write(w io.Writer, b *raster.Bitmap) error {
	rowSize := (b.Width*3 + 3) &^ 3
	pixelBytes := rowSize * b.Height
	fileSize := pixelOffset + pixelBytes

	bw := bufio.NewWriter(w)

	if err := writeFileHeader(bw, fileSize); err != nil {
		return fmt.Errorf("bmp: file header: %w", err)
	}
	if err := writeInfoHeader(bw, b.Width, b.Height, pixelBytes); err != nil {
		return fmt.Errorf("bmp: info header: %w", err)
	}
	if err := writePixels(bw, b, rowSize); err != nil {
		return fmt.Errorf("bmp: pixel data: %w", err)
	}
	return bw.Flush()
}

func writeFileHeader(w io.Writer, fileSize int) error {
	var header [fileHeaderSize]byte
	header[0], header[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(header[2:6], uint32(fileSize))
	binary.LittleEndian.PutUint32(header[10:14], pixelOffset)
	_, err := w.Write(header[:])
	return err
}

func writeInfoHeader(w io.Writer, width, height, imageSize int) error {
	var header [infoHeaderSize]byte
	binary.LittleEndian.PutUint32(header[0:4], infoHeaderSize)
	binary.LittleEndian.PutUint32(header[4:8], uint32(width))
	binary.LittleEndian.PutUint32(header[8:12], uint32(height))
	binary.LittleEndian.PutUint16(header[12:14], 1)  // color planes
	binary.LittleEndian.PutUint16(header[14:16], 24) // bits per pixel
	binary.LittleEndian.PutUint32(header[20:24], uint32(imageSize))
	_, err := w.Write(header[:])
	return err
}

func writePixels(w io.Writer, b *raster.Bitmap, rowSize int) error {
	padding := make([]byte, rowSize-b.Width*3)
	row := make([]byte, b.Width*3)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			px := b.At(x, y)
			i := x * 3
			row[i], row[i+1], row[i+2] = px.B, px.G, px.R
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
		if len(padding) > 0 {
			if _, err := w.Write(padding); err != nil {
				return err
			}
		}
	}
	return nil
}
