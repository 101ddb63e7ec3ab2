//go:build !unix

package fwdeforge

// lockArtifact is a no-op on platforms without flock.
func lockArtifact(string) (func() error, error) {
	return func() error { return nil }, nil
}
