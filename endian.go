package fwdeforge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Endianness is the byte order code recorded at header offset 6.
type Endianness uint8

const (
	// EndianUnknown is never written to a header.
	EndianUnknown Endianness = 0
	LittleEndian  Endianness = 1
	BigEndian     Endianness = 2
)

func (e Endianness) Valid() bool {
	return e == LittleEndian || e == BigEndian
}

func (e Endianness) String() string {
	switch e {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	case EndianUnknown:
		return "unknown"
	}
	return fmt.Sprintf("Endianness(%d)", uint8(e))
}

// ByteOrder returns the binary.ByteOrder for e, or nil if e is not valid.
func (e Endianness) ByteOrder() binary.ByteOrder {
	switch e {
	case LittleEndian:
		return binary.LittleEndian
	case BigEndian:
		return binary.BigEndian
	}
	return nil
}

// ClassifyEndianness infers byte order from the first ProbeSize bytes of b.
//
// The bytes are read once as a little-endian uint32 and once as a
// big-endian uint32. If the little-endian reading is the smaller one the
// payload is classified little, otherwise big. This is a magnitude
// heuristic, not a format-aware detector: it relies on the payload not
// starting with a byte-symmetric pattern. When both readings are equal
// the order cannot be recovered and ErrIndeterminateEndianness is returned.
func ClassifyEndianness(b []byte) (Endianness, error) {
	if len(b) < ProbeSize {
		return EndianUnknown, newError("probe", "", KindInsufficientData,
			fmt.Errorf("got %d of %d bytes", len(b), ProbeSize))
	}
	little := binary.LittleEndian.Uint32(b[:ProbeSize])
	big := binary.BigEndian.Uint32(b[:ProbeSize])
	switch {
	case little == big:
		return EndianUnknown, newError("probe", "", KindIndeterminateEndianness,
			fmt.Errorf("leading bytes % x read the same in both orders", b[:ProbeSize]))
	case little < big:
		return LittleEndian, nil
	default:
		return BigEndian, nil
	}
}

// ProbeEndianness reads the first ProbeSize bytes of the file at path and
// classifies them with ClassifyEndianness. The file is opened read-only.
func ProbeEndianness(path string) (Endianness, error) {
	f, err := openFileFunc(path, os.O_RDONLY, 0)
	if err != nil {
		return EndianUnknown, ioError("probe", path, err)
	}
	defer f.Close()

	var buf [ProbeSize]byte
	n, err := io.ReadFull(f, buf[:])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return EndianUnknown, newError("probe", path, KindInsufficientData,
				fmt.Errorf("got %d of %d bytes", n, ProbeSize))
		}
		return EndianUnknown, ioError("probe", path, err)
	}

	e, err := ClassifyEndianness(buf[:])
	if err != nil {
		var te *Error
		if errors.As(err, &te) {
			te.Path = path
		}
		return EndianUnknown, err
	}
	return e, nil
}
