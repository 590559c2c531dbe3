package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/unicode/norm"

	"gcir/internal/stackmap"
)

// StackmapFile is the sidecar written next to the IR files.
const StackmapFile = "stackmaps.mp"

// WriteOutputs writes <name>.ll for every successful result and, when table
// holds records, the stack-map sidecar. It returns the written paths.
func WriteOutputs(dir string, results []Result, table *stackmap.Table) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	var written []string
	for _, r := range results {
		if r.Err != nil || r.Module == nil {
			continue
		}
		path := filepath.Join(dir, fileStem(r.Name)+".ll")
		if err := os.WriteFile(path, []byte(r.IR), 0o600); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	if table.Len() == 0 {
		return written, nil
	}
	path := filepath.Join(dir, StackmapFile)
	if err := stackmap.WriteFile(path, table.Records()); err != nil {
		return written, err
	}
	return append(written, path), nil
}

// fileStem is the NFC form of a job name, so names that differ only in
// normalization map to the same file.
func fileStem(name string) string {
	return norm.NFC.String(name)
}
