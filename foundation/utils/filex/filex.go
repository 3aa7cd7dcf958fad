// File: filex.go
// Title: File Utilities
// Description: Path predicates, extension handling, recursive discovery by
//              extension and content hashing.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive file utilities
// - 2026-10-17 v0.3.0: Reduced to the helpers of the source analyzer

package filex

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

func statIs(path string, pred func(fs.FileMode) bool) bool {
	info, err := os.Stat(path)
	return err == nil && pred(info.Mode())
}

// Exists reports whether path can be stat'ed. Permission errors count as
// existing.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// IsFile reports whether path is a regular file, following symlinks
func IsFile(path string) bool { return statIs(path, fs.FileMode.IsRegular) }

// IsDir reports whether path is a directory, following symlinks
func IsDir(path string) bool { return statIs(path, fs.FileMode.IsDir) }

// NormalizeExt lower-cases ext and makes sure it starts with a dot. The
// empty extension stays empty.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext[0] == '.' {
		return ext
	}
	return "." + ext
}

// HasExt reports whether path ends in ext, ignoring case
func HasExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), NormalizeExt(ext))
}

// ReplaceExt swaps the extension of path for ext and puts suffix in front
// of it: ReplaceExt("src/Main.jack", "T", "xml") is "src/MainT.xml".
func ReplaceExt(path, suffix, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix + NormalizeExt(ext)
}

// FindByExt lists the regular files carrying ext below root in lexical
// order. If root is a file it is the only candidate.
func FindByExt(root, ext string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		if HasExt(root, ext) {
			return []string{root}, nil
		}
		return nil, nil
	}

	var found []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.Type().IsRegular() && HasExt(path, ext):
			found = append(found, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("cannot walk %s: %w", root, walkErr)
	}
	slices.Sort(found)
	return found, nil
}

// SHA256Bytes returns the hex SHA-256 digest of data
func SHA256Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
