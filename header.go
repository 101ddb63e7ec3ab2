package fwdeforge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Header is the fixed 7-byte prefix of an FWDE artifact.
//
//	offset 0  4 bytes  signature "FWDE"
//	offset 4  1 byte   architecture code
//	offset 5  1 byte   format marker (0x69)
//	offset 6  1 byte   endianness code
type Header struct {
	Magic  [4]byte
	Arch   Architecture
	Marker byte
	Endian Endianness
}

// NewHeader returns a header with the FWDE signature and marker set.
func NewHeader(arch Architecture, endian Endianness) *Header {
	return &Header{
		Magic:  Magic,
		Arch:   arch,
		Marker: FormatMarker,
		Endian: endian,
	}
}

// EncodeHeader writes h into the first 7 bytes of dst. The signature is
// always Magic, regardless of h.Magic.
func EncodeHeader(dst []byte, h *Header) error {
	if len(dst) < HeaderSize {
		return fmt.Errorf("fwdeforge: header encode: buffer too small (%d < %d)", len(dst), HeaderSize)
	}
	if !h.Arch.Valid() {
		return fmt.Errorf("fwdeforge: header encode: %w (%d)", ErrBadArchitecture, h.Arch)
	}
	if !h.Endian.Valid() {
		return fmt.Errorf("fwdeforge: header encode: %w (%d)", ErrBadEndianness, h.Endian)
	}
	copy(dst[0:4], Magic[:])
	dst[4] = byte(h.Arch)
	dst[5] = h.Marker
	dst[6] = byte(h.Endian)
	return nil
}

// DecodeHeader reads the first 7 bytes of src into a Header, applying the
// same acceptance checks a loader does: the signature must match and the
// endianness code must be little or big. The marker is returned unchecked.
func DecodeHeader(src []byte) (*Header, error) {
	if len(src) < HeaderSize {
		return nil, fmt.Errorf("fwdeforge: header decode: buffer too small (%d < %d)", len(src), HeaderSize)
	}
	if !bytes.Equal(src[0:4], Magic[:]) {
		return nil, fmt.Errorf("fwdeforge: header decode: %w (got %q)", ErrBadMagic, src[0:4])
	}
	h := &Header{
		Arch:   Architecture(src[4]),
		Marker: src[5],
		Endian: Endianness(src[6]),
	}
	copy(h.Magic[:], src[0:4])
	if !h.Arch.Valid() {
		return nil, fmt.Errorf("fwdeforge: header decode: %w (%d)", ErrBadArchitecture, src[4])
	}
	if !h.Endian.Valid() {
		return nil, fmt.Errorf("fwdeforge: header decode: %w (%d)", ErrBadEndianness, src[6])
	}
	return h, nil
}

// Inspect reads and decodes the header of the tagged artifact at path.
func Inspect(path string) (*Header, error) {
	f, err := openFileFunc(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, ioError("inspect", path, err)
	}
	defer f.Close()

	var buf [HeaderSize]byte
	n, err := io.ReadFull(f, buf[:])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, newError("inspect", path, KindInsufficientData,
				fmt.Errorf("got %d of %d header bytes", n, HeaderSize))
		}
		return nil, ioError("inspect", path, err)
	}

	h, err := DecodeHeader(buf[:])
	if err != nil {
		return nil, newError("inspect", path, KindMalformed, err)
	}
	return h, nil
}
