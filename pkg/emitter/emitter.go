package emitter

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/menta2k/image-augmenter/pkg/types"
)

// ImageSaver persists a single image.
type ImageSaver interface {
	SaveImage(img image.Image, path, format string, quality int, lossless bool) error
}

// Options controls where and how derived images are written.
type Options struct {
	Dir      string
	Format   string
	Quality  int
	Lossless bool
}

// Emitter names derived images and writes them to the target directory.
type Emitter struct {
	saver ImageSaver
	opts  Options
}

// New creates an Emitter writing through saver.
func New(saver ImageSaver, opts Options) *Emitter {
	if opts.Format == "" {
		opts.Format = "jpg"
	}
	return &Emitter{saver: saver, opts: opts}
}

// FileName returns the output name of the index-th (1-based) derived image.
func FileName(base string, index int, ext string) string {
	return fmt.Sprintf("%s-%d.%s", base, index, strings.ToLower(ext))
}

// Emit writes entries as {base}-1 ... {base}-N and returns their notation
// records in the same order. The first failed write aborts; images already
// written stay on disk.
func (e *Emitter) Emit(base string, entries []types.DerivedEntry) ([]types.NotationRecord, int64, error) {
	records := make([]types.NotationRecord, 0, len(entries))
	var written int64
	for i, entry := range entries {
		name := FileName(base, i+1, e.opts.Format)
		path := filepath.Join(e.opts.Dir, name)
		if err := e.saver.SaveImage(entry.Image, path, e.opts.Format, e.opts.Quality, e.opts.Lossless); err != nil {
			return nil, written, errors.Wrapf(err, "failed to save %s", path)
		}
		if info, err := os.Stat(path); err == nil {
			written += info.Size()
		}
		klog.V(1).Infof("wrote %s (%s, %d boxes)", path, entry.Path, len(entry.Annotation))
		records = append(records, types.NotationRecord{Filename: name, Annotation: entry.Annotation})
	}
	return records, written, nil
}
