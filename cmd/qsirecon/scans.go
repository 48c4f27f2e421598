package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

var dwiSuffixes = []string{"_dwi.nii.gz", "_dwi.nii"}

// findScans returns the preprocessed DWI files under root/sub-<subject>,
// sorted.
func findScans(root, subject string) ([]string, error) {
	dir := filepath.Join(root, "sub-"+subject)
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, suffix := range dwiSuffixes {
			if strings.HasSuffix(d.Name(), suffix) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find scans for sub-%s: %w", subject, err)
	}
	sort.Strings(files)
	return files, nil
}
