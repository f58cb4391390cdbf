/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package bundle packs exported canvas overviews into a single shareable
// zip archive and installs received archives.
package bundle

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "screenflow/internal/log"
)

// manifestName is the human-readable description file at the archive root.
const manifestName = "sharepack.manifest.txt"

// Pack zips the contents of exportsDir into a single .zip file at
// destZipPath. The archive preserves the directory structure and adds a
// small manifest file at the root for quick human inspection. An empty
// exports directory still produces an archive with only the manifest.
func Pack(exportsDir string, destZipPath string) error {
	l := applog.WithOperation(applog.WithComponent("bundle"), "pack").With(slog.String("dir", exportsDir))
	if strings.TrimSpace(exportsDir) == "" {
		return errors.New("exportsDir is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}
	if _, err := os.Stat(exportsDir); os.IsNotExist(err) {
		return fmt.Errorf("exports dir does not exist: %s", exportsDir)
	}

	// Ensure target directory exists
	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)
	defer func() { _ = zw.Close() }()

	// Add manifest text
	manifest := fmt.Sprintf("ScreenFlow Share Pack\nCreated: %s\nSource: %s\n\nContents mirror the exports directory.\n",
		time.Now().Format(time.RFC3339), exportsDir)
	w, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := w.Write([]byte(manifest)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	// Walk the exports folder and add files
	added := 0
	err = filepath.Walk(exportsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(exportsDir, path)
		if err != nil {
			return err
		}
		// Forward slashes inside the zip, regardless of platform
		fw, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if _, err := io.Copy(fw, f); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		l.Error("zip build failed", slog.Any("err", err))
		return fmt.Errorf("build zip: %w", err)
	}
	l.Info("share pack created", slog.Int("files", added), slog.String("zip", destZipPath))
	return nil
}

// Install extracts the given .zip pack into destDir. Existing files are
// not overwritten; if a file already exists, it is skipped. Entries that
// would escape destDir are rejected. Returns the count of files installed
// (skipped files are not counted).
func Install(destDir string, packZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("bundle"), "install").With(slog.String("dest", destDir))
	if strings.TrimSpace(destDir) == "" {
		return 0, errors.New("destDir is required")
	}
	if strings.TrimSpace(packZipPath) == "" {
		return 0, errors.New("packZipPath is required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("ensure dest dir: %w", err)
	}
	absDest, err := filepath.Abs(destDir)
	if err != nil {
		return 0, err
	}

	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	installed := 0
	for _, f := range r.File {
		if f.Name == manifestName {
			continue
		}
		targetPath := filepath.Join(absDest, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(targetPath, absDest+string(os.PathSeparator)) {
			return installed, fmt.Errorf("entry escapes destination: %s", f.Name)
		}
		// If file exists, skip
		if _, err := os.Stat(targetPath); err == nil {
			l.Warn("skip existing file", slog.String("path", targetPath))
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return installed, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return installed, err
		}
		rc, err := f.Open()
		if err != nil {
			return installed, err
		}
		out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			_ = rc.Close()
			return installed, err
		}
		if _, err := io.Copy(out, rc); err != nil {
			_ = out.Close()
			_ = rc.Close()
			return installed, err
		}
		_ = out.Close()
		_ = rc.Close()
		installed++
	}
	l.Info("share pack installed", slog.Int("files", installed))
	return installed, nil
}
