// Package storage persists mind map documents as versioned JSON files. It
// separates "cannot open" (I/O) failures from "corrupted" (parse) failures,
// and saves with a write-then-replace discipline so a failed write never
// truncates the previously saved file.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mentis/model"
)

// FileExtension is the canonical document suffix.
const FileExtension = ".mentis"

var (
	// ErrOpen marks I/O failures: the file could not be read or written.
	ErrOpen = errors.New("cannot open file")
	// ErrCorrupted marks parse failures: the file was read but is not a
	// valid document.
	ErrCorrupted = errors.New("corrupted file")
)

// ProgressFunc is invoked at checkpoints during long operations so callers
// can advance a progress indicator. May be nil.
type ProgressFunc func()

// fileDocument is the on-disk shape. Node and edge wire forms live on the
// model types themselves.
type fileDocument struct {
	Version  string         `json:"version"`
	Defaults model.Defaults `json:"defaults"`
	Nodes    []*model.Node  `json:"nodes"`
	Edges    []*model.Edge  `json:"edges"`
}

func step(progress ProgressFunc) {
	if progress != nil {
		progress()
	}
}

// Load reads and parses a document. On any failure the caller's current
// document is untouched; the returned error wraps ErrOpen or ErrCorrupted
// and names the offending path.
func Load(path string, progress ProgressFunc) (*model.MindMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	step(progress)

	var file fileDocument
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupted, path, err)
	}
	step(progress)

	doc := model.NewMindMap()
	doc.SetDefaults(file.Defaults)
	if file.Version != "" {
		doc.SetFileVersion(file.Version)
	}
	for _, node := range file.Nodes {
		if err := doc.AddNode(node); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupted, path, err)
		}
	}
	for _, edge := range file.Edges {
		if err := doc.AddEdge(edge); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupted, path, err)
		}
	}
	step(progress)

	doc.SetModified(false)
	return doc, nil
}

// Save writes the document to a temporary file in the target directory and
// renames it over the destination, then clears the document's modified flag.
func Save(doc *model.MindMap, path string, progress ProgressFunc) error {
	file := fileDocument{
		Version:  model.Version,
		Defaults: doc.Defaults(),
		Nodes:    doc.Nodes(),
		Edges:    doc.Edges(),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	step(progress)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	step(progress)

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	step(progress)

	doc.SetModified(false)
	return nil
}
