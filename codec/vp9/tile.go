//nolint:mnd,gosec // 8x8 mode info and 64x64 superblock units.
package vp9

import "github.com/ugparu/vp9parser/utils/bits/pio"

const tileSizeBytes = 4

// Tile locates one tile's entropy coded data and its mode info bounds.
type Tile struct {
	Row, Col   int
	MiRowStart uint32
	MiRowEnd   uint32
	MiColStart uint32
	MiColEnd   uint32
	Offset     int // from the start of the frame
	Size       int
}

func tileOffset(i int, mis uint32, log2 uint8) uint32 {
	sbs := (mis + 7) >> 3
	offset := ((uint32(i) * sbs) >> log2) << 3
	return min(offset, mis)
}

// parseTiles walks the tile size markers in data, which starts at byte base of the frame.
func parseTiles(h *FrameHeader, data []byte, base int) (tiles []Tile, err error) {
	rows, cols := h.TileRows(), h.TileCols()
	tiles = make([]Tile, 0, rows*cols)
	pos := 0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			last := row == rows-1 && col == cols-1
			size := len(data) - pos
			if !last {
				if len(data)-pos < tileSizeBytes {
					return nil, invalidHeader("tile %d,%d size marker past end of frame", row, col)
				}
				size = int(pio.U32BE(data[pos:]))
				pos += tileSizeBytes
				if size > len(data)-pos {
					return nil, invalidHeader("tile %d,%d size %d overruns frame", row, col, size)
				}
			}
			tiles = append(tiles, Tile{
				Row:        row,
				Col:        col,
				MiRowStart: tileOffset(row, h.MiRows(), h.TileRowsLog2),
				MiRowEnd:   tileOffset(row+1, h.MiRows(), h.TileRowsLog2),
				MiColStart: tileOffset(col, h.MiCols(), h.TileColsLog2),
				MiColEnd:   tileOffset(col+1, h.MiCols(), h.TileColsLog2),
				Offset:     base + pos,
				Size:       size,
			})
			pos += size
		}
	}
	return
}
