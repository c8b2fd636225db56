// Package sfdp parses the Serial Flash Discoverable Parameters (JESD216)
// address space of a SPI-NOR chip.
//
// The SFDP space starts with an 8 byte header followed by parameter headers,
// each pointing at a table of little-endian dwords. The first table is always
// the basic flash parameter table (BFPT), exposed through Basic.
//
//	s, err := sfdp.Parse(r)
//	if err != nil {
//	    return err
//	}
//	bfpt, err := s.Basic()
//	size, err := bfpt.Size()
//
// Vendor-specific fields that have no accessor are read with ReadAt, which
// goes back to the chip.
package sfdp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Signature is "SFDP" read as a little-endian dword.
const Signature = 0x50444653

// BasicTableID is the parameter ID of the basic flash parameter table.
const BasicTableID = 0xFF00

const (
	headerSize      = 8
	paramHeaderSize = 8
	addrMask        = 0x00FFFFFF
)

var (
	// ErrNotSupported indicates the chip did not return the SFDP signature.
	ErrNotSupported = errors.New("chip does not support SFDP")

	// ErrNoTable indicates a parameter table that the chip does not have.
	ErrNoTable = errors.New("no such SFDP table")

	// ErrOutOfRange indicates a dword past the end of a table.
	ErrOutOfRange = errors.New("SFDP dword out of range")
)

// ReaderAt reads the SFDP address space.
type ReaderAt interface {
	// SFDPReadAt reads len(out) bytes at offset. Only the low 24 bits of
	// offset are significant.
	SFDPReadAt(offset uint32, out []byte) error
}

// Buffer holds an SFDP image. Primarily used for testing.
type Buffer []byte

// SFDPReadAt implements ReaderAt for Buffer.
func (b Buffer) SFDPReadAt(offset uint32, out []byte) error {
	offset &= addrMask
	if int(offset)+len(out) > len(b) {
		return fmt.Errorf("sfdp read 0x%X+%d: %w", offset, len(out), ErrOutOfRange)
	}
	copy(out, b[offset:])
	return nil
}

// Header is the SFDP header at offset 0.
type Header struct {
	Signature uint32
	MinorRev  uint8
	MajorRev  uint8

	// NPH is the number of parameter headers minus one
	NPH uint8

	AccessProtocol uint8
}

// ParameterHeader locates one parameter table.
type ParameterHeader struct {
	// ID is IDMSB:IDLSB
	ID       uint16
	MinorRev uint8
	MajorRev uint8

	// Length is in dwords
	Length uint8

	// Pointer is the 24-bit table address
	Pointer uint32
}

type rawParameterHeader struct {
	IDLSB    uint8
	MinorRev uint8
	MajorRev uint8
	Length   uint8
	Pointer  [3]uint8
	IDMSB    uint8
}

// Parameter is a parameter header and its table.
type Parameter struct {
	ParameterHeader
	Table []uint32
}

// SFDP is a parsed SFDP space.
type SFDP struct {
	Header
	Parameters []Parameter

	r ReaderAt
}

// Parse reads and parses the SFDP header, every parameter header and every
// parameter table.
func Parse(r ReaderAt) (*SFDP, error) {
	buf := make([]byte, headerSize)
	if err := r.SFDPReadAt(0, buf); err != nil {
		return nil, fmt.Errorf("sfdp header: %w", err)
	}

	var hdr Header
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	if hdr.Signature != Signature {
		return nil, ErrNotSupported
	}

	n := int(hdr.NPH) + 1
	buf = make([]byte, paramHeaderSize*n)
	if err := r.SFDPReadAt(headerSize, buf); err != nil {
		return nil, fmt.Errorf("sfdp parameter headers: %w", err)
	}

	s := &SFDP{
		Header:     hdr,
		Parameters: make([]Parameter, n),
		r:          r,
	}
	rd := bytes.NewReader(buf)
	for i := range s.Parameters {
		var raw rawParameterHeader
		if err := binary.Read(rd, binary.LittleEndian, &raw); err != nil {
			return nil, err
		}

		p := &s.Parameters[i]
		p.ID = uint16(raw.IDMSB)<<8 | uint16(raw.IDLSB)
		p.MinorRev = raw.MinorRev
		p.MajorRev = raw.MajorRev
		p.Length = raw.Length
		p.Pointer = uint32(raw.Pointer[0]) | uint32(raw.Pointer[1])<<8 | uint32(raw.Pointer[2])<<16

		// JESD216 rev 0 leaves the ID MSB of the mandatory first table at 0
		if i == 0 && raw.IDLSB == 0 && raw.IDMSB == 0 {
			p.ID = BasicTableID
		}

		table := make([]byte, int(p.Length)*4)
		if err := r.SFDPReadAt(p.Pointer, table); err != nil {
			return nil, fmt.Errorf("sfdp table 0x%04X: %w", p.ID, err)
		}
		p.Table = make([]uint32, p.Length)
		if err := binary.Read(bytes.NewReader(table), binary.LittleEndian, p.Table); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Table returns the first parameter with the given ID.
func (s *SFDP) Table(id uint16) (*Parameter, error) {
	for i := range s.Parameters {
		if s.Parameters[i].ID == id {
			return &s.Parameters[i], nil
		}
	}
	return nil, fmt.Errorf("table 0x%04X: %w", id, ErrNoTable)
}

// TableDword reads dword n (0-based) of the table with the given ID.
func (s *SFDP) TableDword(id uint16, n int) (uint32, error) {
	p, err := s.Table(id)
	if err != nil {
		return 0, err
	}
	if n < 0 || n >= len(p.Table) {
		return 0, fmt.Errorf("table 0x%04X dword %d: %w", id, n+1, ErrOutOfRange)
	}
	return p.Table[n], nil
}

// ReadAt reads raw bytes of the SFDP space from the chip.
func (s *SFDP) ReadAt(offset uint32, out []byte) error {
	if s.r == nil {
		return ErrNotSupported
	}
	return s.r.SFDPReadAt(offset, out)
}

// Basic returns the basic flash parameter table.
func (s *SFDP) Basic() (*BFPT, error) {
	p, err := s.Table(BasicTableID)
	if err != nil {
		return nil, err
	}
	return &BFPT{MinorRev: p.MinorRev, MajorRev: p.MajorRev, Dwords: p.Table}, nil
}
