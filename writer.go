package fwdeforge

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var syncFileFunc = func(f *os.File) error { return f.Sync() }

// WriteHeader prepends a header for arch and endian to the artifact at path.
//
// The whole file is read into memory first; only then is it reopened with
// O_TRUNC and rewritten as header followed by the original bytes, so the
// file grows by exactly HeaderSize. WriteHeader does not check whether the
// file is already tagged: calling it twice yields a doubled header.
func WriteHeader(path string, arch Architecture, endian Endianness) error {
	if !arch.Valid() {
		return newError("write", path, KindInvalidArgument,
			fmt.Errorf("%w (%d)", ErrBadArchitecture, arch))
	}
	if !endian.Valid() {
		return newError("write", path, KindInvalidArgument,
			fmt.Errorf("%w (%d)", ErrBadEndianness, endian))
	}

	payload, err := readAll(path)
	if err != nil {
		return ioError("write", path, err)
	}

	buf := make([]byte, HeaderSize, HeaderSize+len(payload))
	if err := EncodeHeader(buf, NewHeader(arch, endian)); err != nil {
		return newError("write", path, KindInvalidArgument, err)
	}
	buf = append(buf, payload...)

	f, err := openFileFunc(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return ioError("write", path, err)
	}
	if _, err := f.Write(buf); err != nil {
		closeErr := f.Close()
		return newError("write", path, KindIOFailure, errors.Join(err, closeErr))
	}
	if err := syncFileFunc(f); err != nil {
		closeErr := f.Close()
		return newError("write", path, KindIOFailure, errors.Join(
			fmt.Errorf("sync: %w", err),
			closeErr,
		))
	}
	if err := f.Close(); err != nil {
		return newError("write", path, KindIOFailure, fmt.Errorf("close: %w", err))
	}
	return nil
}

func readAll(path string) ([]byte, error) {
	f, err := openFileFunc(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
