package sfdp

import "encoding/binary"

// Table is a parameter table for Build.
type Table struct {
	ID       uint16
	MinorRev uint8
	MajorRev uint8
	Dwords   []uint32
}

// Build lays out an SFDP image holding the given tables, the first of which
// should be the basic flash parameter table. It is used to give simulated
// chips an SFDP space.
func Build(minorRev uint8, tables ...Table) Buffer {
	if len(tables) == 0 {
		return nil
	}
	ptr := headerSize + paramHeaderSize*len(tables)
	size := ptr
	for _, t := range tables {
		size += 4 * len(t.Dwords)
	}

	img := make(Buffer, size)
	binary.LittleEndian.PutUint32(img[0:], Signature)
	img[4] = minorRev
	img[5] = 1
	img[6] = uint8(len(tables) - 1)
	img[7] = 0xFF

	for i, t := range tables {
		h := img[headerSize+paramHeaderSize*i:]
		h[0] = uint8(t.ID)
		h[1] = t.MinorRev
		h[2] = t.MajorRev
		h[3] = uint8(len(t.Dwords))
		h[4] = uint8(ptr)
		h[5] = uint8(ptr >> 8)
		h[6] = uint8(ptr >> 16)
		h[7] = uint8(t.ID >> 8)
		for _, d := range t.Dwords {
			binary.LittleEndian.PutUint32(img[ptr:], d)
			ptr += 4
		}
	}
	return img
}
