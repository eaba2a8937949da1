// Package ingest walks an input directory and loads the PDF documents the
// pipeline will process. The walk is tolerant: an unreadable file is
// reported in its result entry and never stops the scan.
package ingest

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"invoicepipe/constants"
	"invoicepipe/internal/pipeline"
)

type FileResult struct {
	Path string
	Err  string
}

type DirStats struct {
	Scanned uint32
	Matched uint32
	Loaded  uint32
	Failed  uint32
}

// ScanDirectory walks root, keeps files with an allowed extension, skips
// hidden entries when requested, and reads each match into memory. The
// returned documents are sorted by name so batch output is deterministic.
func ScanDirectory(root string, skipHidden bool) ([]pipeline.Document, []FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, nil, DirStats{}, os.ErrInvalid
	}

	var docs []pipeline.Document
	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			return nil
		}
		stats.Matched++

		data, err := os.ReadFile(path)
		if err != nil {
			results = append(results, FileResult{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		docs = append(docs, pipeline.Document{Name: filepath.Base(path), Data: data})
		results = append(results, FileResult{Path: path})
		stats.Loaded++
		return nil
	})
	if err != nil {
		return docs, results, stats, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, results, stats, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
