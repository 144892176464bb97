// Package imageaugmenter expands a labeled object-detection dataset.
//
// For every image of a source notation file it writes a fixed set of
// fourteen derived images (blurred, mirrored and half-split variants) and
// a new notation file whose bounding boxes match each variant's pixels.
//
// Basic usage:
//
//	aug, err := imageaugmenter.New("label.idl", "train", "train-augmented", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	summary, err := aug.Run()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d images written\n", summary.DerivedImages)
//
// The package consists of four main components:
//
// 1. Geometry (pkg/geometry): mirror and split transforms of box lists
// 2. Processing (pkg/processing): image loading, saving and pixel transforms
// 3. Expansion (pkg/expansion): the per-image recipe of derived entries
// 4. Emitter (pkg/emitter) and Notation (pkg/notation): output naming and label files
//
// Source images are processed one at a time and flushed to disk before the
// next is loaded. The notation file is written only after every image has
// been written, so an aborted run leaves images but no notation file.
package imageaugmenter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/menta2k/image-augmenter/internal/config"
	"github.com/menta2k/image-augmenter/internal/utils"
	"github.com/menta2k/image-augmenter/pkg/emitter"
	"github.com/menta2k/image-augmenter/pkg/expansion"
	"github.com/menta2k/image-augmenter/pkg/notation"
	"github.com/menta2k/image-augmenter/pkg/processing"
	"github.com/menta2k/image-augmenter/pkg/types"
)

// Version of the image augmenter
const Version = "1.0.0"

// Error kinds. Use errors.Is to classify a failure returned by the augmenter.
var (
	ErrConfig   = errors.New("configuration error")
	ErrResource = errors.New("resource error")
	ErrWrite    = errors.New("write error")
)

// Error is a failure tied to one file or image.
type Error struct {
	Kind    error
	Subject string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Subject, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// DataAugmentation expands one notation file into a new training set.
type DataAugmentation struct {
	notationFile string
	trainingDir  string
	targetDir    string
	config       *config.Config

	processor *processing.Processor
	expander  *expansion.Expander
	emitter   *emitter.Emitter

	entries  []types.DatasetEntry
	progress io.Writer
}

// Summary describes a finished run.
type Summary struct {
	SourceImages  int
	SkippedImages int
	DerivedImages int
	BytesWritten  int64
	NotationPath  string
}

// New validates cfg and prepares a run. The target directory is created if
// absent. A nil cfg selects config.Default().
func New(notationFile, trainingDir, targetDir string, cfg *config.Config) (*DataAugmentation, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Kind: ErrConfig, Subject: "config", Err: err}
	}
	if !utils.DirExists(trainingDir) {
		return nil, &Error{Kind: ErrConfig, Subject: trainingDir, Err: errors.New("image directory does not exist")}
	}

	created, err := utils.EnsureDir(targetDir)
	if err != nil {
		return nil, &Error{Kind: ErrConfig, Subject: targetDir, Err: err}
	}
	if created {
		klog.Infof("Creating new image set under %s", targetDir)
	}

	processor := processing.NewProcessor()
	return &DataAugmentation{
		notationFile: notationFile,
		trainingDir:  trainingDir,
		targetDir:    targetDir,
		config:       cfg,
		processor:    processor,
		expander:     expansion.New(processor, cfg.Dimensions),
		emitter: emitter.New(processor, emitter.Options{
			Dir:      targetDir,
			Format:   cfg.Output.Format,
			Quality:  cfg.Output.Quality,
			Lossless: cfg.Output.Lossless,
		}),
	}, nil
}

// SetProgressOutput enables a progress bar over source images written to w.
func (d *DataAugmentation) SetProgressOutput(w io.Writer) {
	d.progress = w
}

// LoadNotations parses the source notation file.
func (d *DataAugmentation) LoadNotations() ([]types.DatasetEntry, error) {
	entries, err := notation.ReadFile(d.notationFile)
	if err != nil {
		return nil, err
	}
	d.entries = entries
	klog.V(1).Infof("loaded %d entries from %s", len(entries), d.notationFile)
	return entries, nil
}

// ExpandEntry loads the image of one entry, writes its derived images and
// returns their notation records. It reports the bytes written.
func (d *DataAugmentation) ExpandEntry(entry types.DatasetEntry) ([]types.NotationRecord, int64, error) {
	imagePath := filepath.Join(d.trainingDir, entry.ImageReference)
	klog.Infof("Loading image %s", imagePath)

	subject := fmt.Sprintf("%s (line %d)", imagePath, entry.Line)
	if !utils.FileExists(imagePath) {
		return nil, 0, &Error{Kind: ErrResource, Subject: subject, Err: errors.Wrap(os.ErrNotExist, "image not found")}
	}
	img, err := d.processor.LoadImage(imagePath)
	if err != nil {
		return nil, 0, &Error{Kind: ErrResource, Subject: subject, Err: err}
	}

	if size := img.Bounds().Size(); size.X != d.config.Dimensions.Width || size.Y != d.config.Dimensions.Height {
		klog.Warningf("%s is %dx%d, boxes are split at the centerline of %dx%d",
			imagePath, size.X, size.Y, d.config.Dimensions.Width, d.config.Dimensions.Height)
	}

	derived, err := d.expander.Expand(entry, img)
	if err != nil {
		return nil, 0, &Error{Kind: ErrResource, Subject: imagePath, Err: err}
	}

	records, written, err := d.emitter.Emit(d.baseName(entry.ImageReference), derived)
	if err != nil {
		return nil, written, &Error{Kind: ErrWrite, Subject: entry.ImageReference, Err: err}
	}
	return records, written, nil
}

// SaveNotations writes records to the notation file of the target directory.
func (d *DataAugmentation) SaveNotations(records []types.NotationRecord) (string, error) {
	path := filepath.Join(d.targetDir, d.config.Output.NotationFile)
	if err := notation.WriteFile(path, records); err != nil {
		return "", &Error{Kind: ErrWrite, Subject: path, Err: err}
	}
	klog.Infof("New label notation has been saved to %s", path)
	return path, nil
}

// Run expands every entry of the notation file and writes the new notation.
// Any error aborts the run before the notation file is written.
func (d *DataAugmentation) Run() (Summary, error) {
	var summary Summary
	if d.entries == nil {
		if _, err := d.LoadNotations(); err != nil {
			return summary, err
		}
	}

	var bar *progressbar.ProgressBar
	if d.progress != nil {
		bar = progressbar.NewOptions(len(d.entries),
			progressbar.OptionSetWriter(d.progress),
			progressbar.OptionSetDescription("augmenting"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
		)
	}

	var records []types.NotationRecord
	for _, entry := range d.entries {
		entryRecords, written, err := d.ExpandEntry(entry)
		summary.BytesWritten += written
		if err != nil {
			if d.config.Input.SkipMissingImages && errors.Is(err, ErrResource) {
				klog.Warningf("skipping %s: %v", entry.ImageReference, err)
				summary.SkippedImages++
				if bar != nil {
					_ = bar.Add(1)
				}
				continue
			}
			return summary, err
		}
		records = append(records, entryRecords...)
		summary.SourceImages++
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	klog.Infof("%d derived images, %s written", len(records), humanize.Bytes(uint64(summary.BytesWritten)))
	path, err := d.SaveNotations(records)
	if err != nil {
		return summary, err
	}
	summary.DerivedImages = len(records)
	summary.NotationPath = path
	return summary, nil
}

func (d *DataAugmentation) baseName(reference string) string {
	if d.config.Input.LegacyBasename {
		return utils.LegacyBaseName(reference)
	}
	return utils.BaseName(reference)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
