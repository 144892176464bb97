// Package notation reads and writes line-delimited JSON label files.
//
// Every line holds one object with exactly one key, the image name, mapped
// to its list of boxes:
//
//	{"img01.jpg": [[300, 100, 400, 200, "person"]]}
package notation

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/menta2k/image-augmenter/pkg/types"
)

// maxLineSize bounds a single notation line.
const maxLineSize = 16 << 20

// ParseError reports a malformed line of a notation file.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Read parses all entries from r. Blank lines are skipped; any other
// malformed line aborts with a *ParseError naming source and line.
func Read(r io.Reader, source string) ([]types.DatasetEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []types.DatasetEntry
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		entry, err := parseLine(raw)
		if err != nil {
			return nil, &ParseError{Source: source, Line: line, Err: err}
		}
		entry.Line = line
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", source)
	}
	return entries, nil
}

// ReadFile parses the notation file at path.
func ReadFile(path string) ([]types.DatasetEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open notation file")
	}
	defer f.Close()
	return Read(f, path)
}

func parseLine(raw []byte) (types.DatasetEntry, error) {
	var record map[string]types.Annotation
	if err := json.Unmarshal(raw, &record); err != nil {
		return types.DatasetEntry{}, err
	}
	if len(record) != 1 {
		return types.DatasetEntry{}, errors.Errorf("expected exactly one image per line, got %d", len(record))
	}
	var entry types.DatasetEntry
	for name, annotation := range record {
		entry.ImageReference, entry.Annotation = name, annotation
	}
	if entry.ImageReference == "" {
		return types.DatasetEntry{}, errors.New("empty image reference")
	}
	if entry.Annotation == nil {
		entry.Annotation = types.Annotation{}
	}
	return entry, nil
}

// Write serializes records one JSON object per line, in order.
func Write(w io.Writer, records []types.NotationRecord) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		line, err := MarshalRecord(rec)
		if err != nil {
			return err
		}
		if _, err := bw.Write(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes records to path, replacing any existing file.
func WriteFile(path string, records []types.NotationRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create notation file")
	}
	if err := Write(f, records); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write notation file %s", path)
	}
	return f.Close()
}

// MarshalRecord encodes a single record as {filename: annotation}.
func MarshalRecord(rec types.NotationRecord) ([]byte, error) {
	line, err := json.Marshal(map[string]types.Annotation{rec.Filename: rec.Annotation})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode notation for %s", rec.Filename)
	}
	return line, nil
}
