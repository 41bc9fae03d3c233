package texture

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"
)

// BCFormat represents a block compression format
type BCFormat int

const (
	BC1 BCFormat = iota // DXT1 - RGB, 8 bytes/block
	BC3                 // DXT5 - RGBA, 16 bytes/block
)

func (f BCFormat) blockSize() int {
	if f == BC1 {
		return 8
	}
	return 16
}

// DXGIFormat returns the DXGI_FORMAT value for f.
func (f BCFormat) DXGIFormat() uint32 {
	if f == BC1 {
		return DXGI_FORMAT_BC1_UNORM
	}
	return DXGI_FORMAT_BC3_UNORM
}

// CompressBC compresses tightly packed RGBA pixels into 4x4 blocks. Edge
// blocks repeat the last row and column.
func CompressBC(pix []byte, width, height int, format BCFormat) ([]byte, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, fmt.Errorf("invalid pixel data: %d bytes for %dx%d", len(pix), width, height)
	}
	if format != BC1 && format != BC3 {
		return nil, fmt.Errorf("unsupported BC format: %d", format)
	}

	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	size := format.blockSize()
	out := make([]byte, blocksWide*blocksHigh*size)

	parallel.Line(blocksHigh, func(start, end int) {
		var block [16][4]byte
		for by := start; by < end; by++ {
			for bx := 0; bx < blocksWide; bx++ {
				fetchBlock(pix, width, height, bx*4, by*4, &block)
				dst := out[(by*blocksWide+bx)*size:]
				if format == BC3 {
					compressAlpha(&block, dst[:8])
					dst = dst[8:]
				}
				compressColor(&block, dst[:8])
			}
		}
	})
	return out, nil
}

func fetchBlock(pix []byte, width, height, x0, y0 int, block *[16][4]byte) {
	for j := 0; j < 4; j++ {
		y := min(y0+j, height-1)
		for i := 0; i < 4; i++ {
			x := min(x0+i, width-1)
			o := (y*width + x) * 4
			copy(block[j*4+i][:], pix[o:o+4])
		}
	}
}

func to565(r, g, b byte) uint16 {
	r5 := (uint16(r)*31 + 127) / 255
	g6 := (uint16(g)*63 + 127) / 255
	b5 := (uint16(b)*31 + 127) / 255
	return r5<<11 | g6<<5 | b5
}

func from565(c uint16) [3]int {
	r := int(c>>11) & 0x1f
	g := int(c>>5) & 0x3f
	b := int(c) & 0x1f
	return [3]int{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2}
}

// compressColor uses the bounding box of the block as endpoints and picks the
// nearest of the four palette entries for every texel.
func compressColor(block *[16][4]byte, dst []byte) {
	lo := [3]byte{255, 255, 255}
	hi := [3]byte{}
	for _, p := range block {
		for c := 0; c < 3; c++ {
			lo[c] = min(lo[c], p[c])
			hi[c] = max(hi[c], p[c])
		}
	}

	c0 := to565(hi[0], hi[1], hi[2])
	c1 := to565(lo[0], lo[1], lo[2])
	if c0 < c1 {
		c0, c1 = c1, c0
	}
	dst[0], dst[1] = byte(c0), byte(c0>>8)
	dst[2], dst[3] = byte(c1), byte(c1>>8)

	var indices uint32
	if c0 != c1 {
		palette := colorPalette(c0, c1)
		for i, p := range block {
			best, bestDist := 0, 1<<30
			for k, q := range palette {
				dr := int(p[0]) - q[0]
				dg := int(p[1]) - q[1]
				db := int(p[2]) - q[2]
				if d := dr*dr + dg*dg + db*db; d < bestDist {
					best, bestDist = k, d
				}
			}
			indices |= uint32(best) << (2 * i)
		}
	}
	dst[4], dst[5], dst[6], dst[7] = byte(indices), byte(indices>>8), byte(indices>>16), byte(indices>>24)
}

func colorPalette(c0, c1 uint16) [4][3]int {
	a, b := from565(c0), from565(c1)
	var p [4][3]int
	p[0], p[1] = a, b
	for c := 0; c < 3; c++ {
		p[2][c] = (2*a[c] + b[c]) / 3
		p[3][c] = (a[c] + 2*b[c]) / 3
	}
	return p
}

func alphaPalette(a0, a1 byte) [8]int {
	p := [8]int{int(a0), int(a1)}
	for i := 2; i < 8; i++ {
		p[i] = ((8-i)*int(a0) + (i-1)*int(a1)) / 7
	}
	return p
}

func compressAlpha(block *[16][4]byte, dst []byte) {
	lo, hi := byte(255), byte(0)
	for _, p := range block {
		lo = min(lo, p[3])
		hi = max(hi, p[3])
	}
	dst[0], dst[1] = hi, lo

	var indices uint64
	if hi != lo {
		palette := alphaPalette(hi, lo)
		for i, p := range block {
			best, bestDist := 0, 1<<30
			for k, q := range palette {
				d := int(p[3]) - q
				if d < 0 {
					d = -d
				}
				if d < bestDist {
					best, bestDist = k, d
				}
			}
			indices |= uint64(best) << (3 * i)
		}
	}
	for i := 0; i < 6; i++ {
		dst[2+i] = byte(indices >> (8 * i))
	}
}

// DecompressBC expands blocks back into tightly packed RGBA pixels. BC1
// surfaces decode with opaque alpha.
func DecompressBC(data []byte, width, height int, format BCFormat) ([]byte, error) {
	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	size := format.blockSize()
	if width <= 0 || height <= 0 || len(data) != blocksWide*blocksHigh*size {
		return nil, fmt.Errorf("invalid block data: %d bytes for %dx%d", len(data), width, height)
	}

	pix := make([]byte, width*height*4)
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			src := data[(by*blocksWide+bx)*size:]
			var alpha [16]byte
			for i := range alpha {
				alpha[i] = 255
			}
			if format == BC3 {
				palette := alphaPalette(src[0], src[1])
				var indices uint64
				for i := 0; i < 6; i++ {
					indices |= uint64(src[2+i]) << (8 * i)
				}
				for i := range alpha {
					alpha[i] = byte(palette[(indices>>(3*i))&7])
				}
				src = src[8:]
			}

			c0 := uint16(src[0]) | uint16(src[1])<<8
			c1 := uint16(src[2]) | uint16(src[3])<<8
			palette := colorPalette(c0, c1)
			if format == BC1 && c0 <= c1 {
				a, b := from565(c0), from565(c1)
				for c := 0; c < 3; c++ {
					palette[2][c] = (a[c] + b[c]) / 2
					palette[3][c] = 0
				}
			}
			indices := uint32(src[4]) | uint32(src[5])<<8 | uint32(src[6])<<16 | uint32(src[7])<<24

			for j := 0; j < 4; j++ {
				y := by*4 + j
				if y >= height {
					break
				}
				for i := 0; i < 4; i++ {
					x := bx*4 + i
					if x >= width {
						break
					}
					n := j*4 + i
					q := palette[(indices>>(2*n))&3]
					o := (y*width + x) * 4
					pix[o], pix[o+1], pix[o+2], pix[o+3] = byte(q[0]), byte(q[1]), byte(q[2]), alpha[n]
				}
			}
		}
	}
	return pix, nil
}
