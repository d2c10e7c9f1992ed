// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

package snapshot

import (
	"archive/tar"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// WriteArchive writes a Zstandard-compressed tar of the snapshot tree to
// outPath and returns the path actually written. A '.tar.zst' suffix is
// appended if missing, mirroring how snapshot consumers expect to find it.
func WriteArchive(dir, outPath string) (string, error) {
	if !strings.HasSuffix(outPath, ".tar.zst") {
		outPath += ".tar.zst"
	}

	// The output file may live inside the snapshot tree; remember its resolved
	// path so the walk below never tars the archive into itself.
	absOut, err := filepath.Abs(outPath)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	zstdWriter, err := zstd.NewWriter(file)
	if err != nil {
		return "", err
	}
	tarWriter := tar.NewWriter(zstdWriter)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if absPath, err := filepath.Abs(path); err != nil {
			return err
		} else if absPath == absOut {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()
		_, err = io.Copy(tarWriter, src)
		return err
	})
	if err != nil {
		return "", err
	}

	if err := tarWriter.Close(); err != nil {
		return "", err
	}
	if err := zstdWriter.Close(); err != nil {
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return outPath, nil
}
