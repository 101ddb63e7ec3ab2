package fwdeforge

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"
)

var openFileFunc = os.OpenFile

// DefaultArchivePath returns the sibling path used for the untagged copy
// of path: the extension is replaced with ArchiveExt, so "dm.bin" becomes
// "dm.raw". A path that already ends in ArchiveExt gets it appended
// instead, so the archive never aliases the artifact.
func DefaultArchivePath(path string) string {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ArchiveExt) {
		return path + ArchiveExt
	}
	return strings.TrimSuffix(path, ext) + ArchiveExt
}

// CheckArchivePath reports an InvalidArgument error when dst names the
// same file as src, whether by an identical path, a different spelling of
// it, or a symlink or hard link to it. Opening such a dst for writing would
// truncate the artifact before it is copied.
func CheckArchivePath(src, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return newError("archive", src, KindInvalidArgument, err)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return newError("archive", dst, KindInvalidArgument, err)
	}
	if absSrc == absDst {
		return newError("archive", src, KindInvalidArgument,
			errors.New("archive destination is the artifact itself"))
	}

	srcInfo, err := statFileFunc(absSrc)
	if err != nil {
		// A missing source is reported when it is opened.
		return nil
	}
	dstInfo, err := statFileFunc(absDst)
	if err != nil {
		return nil
	}
	if os.SameFile(srcInfo, dstInfo) {
		return newError("archive", src, KindInvalidArgument,
			fmt.Errorf("archive destination %s is the artifact itself", dst))
	}
	return nil
}

// Archive copies src to dst byte for byte, creating or truncating dst, and
// returns the BLAKE3 digest of the copied bytes. The copy is re-read and
// hashed after it is closed; a mismatch is reported as an I/O failure.
// src is never modified.
func Archive(src, dst string) (Digest, error) {
	if err := CheckArchivePath(src, dst); err != nil {
		return Digest{}, err
	}

	in, err := openFileFunc(src, os.O_RDONLY, 0)
	if err != nil {
		return Digest{}, ioError("archive", src, err)
	}
	defer in.Close()

	out, err := openFileFunc(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return Digest{}, ioError("archive", dst, err)
	}

	h := blake3.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		closeErr := out.Close()
		return Digest{}, newError("archive", dst, KindIOFailure, errors.Join(
			fmt.Errorf("copy %s: %w", src, err),
			closeErr,
		))
	}
	if err := syncFileFunc(out); err != nil {
		closeErr := out.Close()
		return Digest{}, newError("archive", dst, KindIOFailure, errors.Join(
			fmt.Errorf("sync: %w", err),
			closeErr,
		))
	}
	if err := out.Close(); err != nil {
		return Digest{}, newError("archive", dst, KindIOFailure, fmt.Errorf("close: %w", err))
	}

	var want Digest
	copy(want[:], h.Sum(nil))

	got, err := HashFile(dst)
	if err != nil {
		return Digest{}, newError("archive", dst, KindIOFailure, err)
	}
	if got != want {
		return Digest{}, newError("archive", dst, KindIOFailure,
			fmt.Errorf("digest mismatch after copy: got %s, want %s", got, want))
	}
	return want, nil
}
