package fwdeforge

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a BLAKE3-256 digest of an artifact's bytes.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// HashBytes returns the BLAKE3 digest of data.
func HashBytes(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}

// HashFile streams the file at path through BLAKE3.
func HashFile(path string) (Digest, error) {
	f, err := openFileFunc(path, os.O_RDONLY, 0)
	if err != nil {
		return Digest{}, fmt.Errorf("fwdeforge: open %s for hashing: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return Digest{}, fmt.Errorf("fwdeforge: hash %s: %w", path, err)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}
