package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to path through a temp file in the same
// directory followed by a rename, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// WriteJSON marshals v with the given indent and writes it atomically to
// dir/name. It returns the written path.
func WriteJSON(dir, name string, v any, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal %s: %w", name, err)
	}

	p := filepath.Join(dir, name)
	if err := WriteFileAtomic(p, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return p, nil
}

// WriteRawJSON re-indents an already encoded JSON document and writes it
// atomically to dir/name.
func WriteRawJSON(dir, name string, raw []byte, indent string) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", indent); err != nil {
		return "", fmt.Errorf("indent %s: %w", name, err)
	}
	buf.WriteByte('\n')

	p := filepath.Join(dir, name)
	if err := WriteFileAtomic(p, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return p, nil
}
