package fwdeforge

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Result describes a completed tag.
type Result struct {
	Path          string
	ArchivePath   string
	ArchiveDigest Digest
	Header        Header
	// PayloadSize is the size of the untagged artifact; the tagged file is
	// PayloadSize+HeaderSize bytes.
	PayloadSize int64
}

// Tag converts the raw binary at path into an FWDE artifact.
//
// The steps run in a fixed order: the untagged bytes are archived, the
// byte order is probed, and only then is the header written. A probe
// failure leaves path untouched; the archive is kept in every case and is
// the recovery point if the write fails. Tag must be called once per
// artifact.
func Tag(path string, arch Architecture, opts ...TagOption) (res *Result, err error) {
	cfg := applyOptions(path, opts)
	log := cfg.logger.With(slog.String("path", path))

	if !arch.Valid() {
		return nil, newError("tag", path, KindInvalidArgument,
			fmt.Errorf("%w (%d)", ErrBadArchitecture, arch))
	}

	if cfg.lock {
		unlock, lockErr := lockArtifact(path)
		if lockErr != nil {
			return nil, lockErr
		}
		defer func() {
			if unlockErr := unlock(); unlockErr != nil {
				err = errors.Join(err, newError("unlock", path, KindIOFailure, unlockErr))
			}
		}()
		log.Debug("lock acquired")
	}

	digest, err := Archive(path, cfg.archivePath)
	if err != nil {
		return nil, err
	}
	log.Debug("archived", slog.String("archive", cfg.archivePath), slog.String("digest", digest.String()))

	endian, err := ProbeEndianness(path)
	if err != nil {
		log.Debug("probe failed, artifact left untagged", slog.Any("error", err))
		return nil, err
	}
	log.Debug("probed", slog.String("endian", endian.String()))

	size, err := statSize(path)
	if err != nil {
		return nil, err
	}

	if err := WriteHeader(path, arch, endian); err != nil {
		return nil, err
	}

	res = &Result{
		Path:          path,
		ArchivePath:   cfg.archivePath,
		ArchiveDigest: digest,
		Header:        *NewHeader(arch, endian),
		PayloadSize:   size,
	}
	log.Info("tagged",
		slog.String("archive", res.ArchivePath),
		slog.String("digest", digest.String()),
		slog.String("arch", arch.String()),
		slog.String("endian", endian.String()),
		slog.Int64("payload_bytes", size),
	)
	return res, nil
}

var statFileFunc = os.Stat

func statSize(path string) (int64, error) {
	info, err := statFileFunc(path)
	if err != nil {
		return 0, ioError("stat", path, err)
	}
	return info.Size(), nil
}
