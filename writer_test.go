package fwdeforge

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeArtifact(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "desktop-manager.bin")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWriteHeader(t *testing.T) {
	payload := []byte{0x55, 0x48, 0x89, 0xE5, 0xC3}
	path := writeArtifact(t, payload)

	if err := WriteHeader(path, Arch32, BigEndian); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(payload)+HeaderSize {
		t.Fatalf("size = %d, want %d", len(got), len(payload)+HeaderSize)
	}
	if string(got[0:4]) != MagicString {
		t.Errorf("signature = %q, want %q", got[0:4], MagicString)
	}
	if got[4] != byte(Arch32) || got[5] != FormatMarker || got[6] != byte(BigEndian) {
		t.Errorf("header tail = % x, want 02 69 02", got[4:7])
	}
	if !bytes.Equal(got[HeaderSize:], payload) {
		t.Errorf("payload = % x, want % x", got[HeaderSize:], payload)
	}
}

func TestWriteHeader_LargePayload(t *testing.T) {
	payload := make([]byte, 1<<20)
	for i := range payload {
		payload[i] = byte(i*7 + 3)
	}
	path := writeArtifact(t, payload)

	if err := WriteHeader(path, Arch64, LittleEndian); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got[HeaderSize:], payload) {
		t.Error("payload altered")
	}
}

// WriteHeader is not idempotent: a second call stacks another header on
// top of the first.
func TestWriteHeader_TwiceDoublesHeader(t *testing.T) {
	payload := []byte{0x7F, 0x45, 0x4C, 0x46}
	path := writeArtifact(t, payload)

	for i := 0; i < 2; i++ {
		if err := WriteHeader(path, Arch64, LittleEndian); err != nil {
			t.Fatalf("WriteHeader #%d: %v", i+1, err)
		}
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	header := []byte{0x46, 0x57, 0x44, 0x45, 0x01, 0x69, 0x01}
	want := append(append(append([]byte{}, header...), header...), payload...)
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
	if len(got)-len(payload) != 2*HeaderSize {
		t.Errorf("prefix = %d bytes, want 14", len(got)-len(payload))
	}
}

func TestWriteHeader_InvalidArguments(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	path := writeArtifact(t, payload)

	err := WriteHeader(path, 0, LittleEndian)
	if !errors.Is(err, ErrInvalidArgument) || !errors.Is(err, ErrBadArchitecture) {
		t.Errorf("arch 0: err = %v", err)
	}
	err = WriteHeader(path, Arch64, EndianUnknown)
	if !errors.Is(err, ErrInvalidArgument) || !errors.Is(err, ErrBadEndianness) {
		t.Errorf("endian 0: err = %v", err)
	}

	got, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if !bytes.Equal(got, payload) {
		t.Error("artifact modified on rejected arguments")
	}
}

func TestWriteHeader_NotFound(t *testing.T) {
	err := WriteHeader(filepath.Join(t.TempDir(), "missing.bin"), Arch64, LittleEndian)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestWriteHeader_ReadError(t *testing.T) {
	err := WriteHeader(t.TempDir(), Arch64, LittleEndian)
	if !errors.Is(err, ErrIOFailure) {
		t.Fatalf("err = %v, want ErrIOFailure", err)
	}
}

func TestWriteHeader_SyncError(t *testing.T) {
	path := writeArtifact(t, []byte{1, 2, 3, 4})

	orig := syncFileFunc
	syncFileFunc = func(*os.File) error { return errors.New("injected sync failure") }
	defer func() { syncFileFunc = orig }()

	err := WriteHeader(path, Arch64, LittleEndian)
	if !errors.Is(err, ErrIOFailure) {
		t.Fatalf("err = %v, want ErrIOFailure", err)
	}
	var te *Error
	if !errors.As(err, &te) || te.Op != "write" {
		t.Errorf("err = %v, want write op", err)
	}
}

func TestWriteHeader_OpenForWriteError(t *testing.T) {
	path := writeArtifact(t, []byte{1, 2, 3, 4})

	orig := openFileFunc
	openFileFunc = func(name string, flag int, perm os.FileMode) (*os.File, error) {
		if flag&os.O_TRUNC != 0 {
			return nil, os.ErrPermission
		}
		return orig(name, flag, perm)
	}
	defer func() { openFileFunc = orig }()

	err := WriteHeader(path, Arch64, LittleEndian)
	if !errors.Is(err, ErrIOFailure) || !errors.Is(err, os.ErrPermission) {
		t.Fatalf("err = %v, want ErrIOFailure wrapping ErrPermission", err)
	}
	got, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Error("artifact modified despite open failure")
	}
}
