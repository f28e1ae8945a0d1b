package domain

import (
	"crypto/md5" //nolint:gosec // G501: used as a lookup key, not for integrity.
	"encoding/hex"
	"path/filepath"
)

// indexDirSuffix is appended to a fingerprint to name its index directory.
const indexDirSuffix = "_index"

// Fingerprint returns the lowercase hex MD5 digest of a source identifier.
//
// The digest is a lookup key only. MD5 keeps artifacts written by earlier
// deployments addressable; a collision between two URLs would make them
// share one scan record and index, which is an accepted risk.
func Fingerprint(source string) string {
	sum := md5.Sum([]byte(source)) //nolint:gosec // G401: lookup key only.
	return hex.EncodeToString(sum[:])
}

// IndexDirName returns the directory name holding the index for a fingerprint.
func IndexDirName(fingerprint string) string {
	return fingerprint + indexDirSuffix
}

// IndexLocation returns <root>/<fingerprint>_index.
func IndexLocation(root, fingerprint string) string {
	return filepath.Join(root, IndexDirName(fingerprint))
}

// IsFingerprint reports whether s looks like a value returned by Fingerprint.
func IsFingerprint(s string) bool {
	if len(s) != hex.EncodedLen(md5.Size) {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
