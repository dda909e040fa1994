//go:build !unix && !windows

package infra

import "os"

// No advisory locking here; the in-process mutex still serializes appends.
func lockFile(*os.File) error   { return nil }
func unlockFile(*os.File) error { return nil }
