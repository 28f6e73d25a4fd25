// Package thumbnail publishes small raw previews of docked windows for the
// shell. Each preview is a fixed-size raster of 4-byte pixels in the source
// buffer's byte order, written to a temp file and renamed into place.
package thumbnail

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

const (
	// Width and Height are the size of every published preview.
	Width  = 290
	Height = 200

	bytesPerPixel = 4

	filePrefix = "thumb_"
	fileSuffix = ".rgba"
	tempSuffix = ".tmp"
)

var (
	// ErrStrideTooSmall means rows are shorter than width*4 bytes.
	ErrStrideTooSmall = errors.New("buffer stride smaller than row size")
	// ErrShortBuffer means the pixel data ends before the last row.
	ErrShortBuffer = errors.New("pixel data shorter than stride*height")
)

// Downsample scales a width x height raster with the given row stride to
// dstW x dstH using nearest-neighbour sampling on both axes. Padding bytes at
// the end of source rows are never read.
func Downsample(src []byte, width, height, stride, dstW, dstH int) ([]byte, error) {
	if width <= 0 || height <= 0 || dstW <= 0 || dstH <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d -> %dx%d", width, height, dstW, dstH)
	}
	if stride < width*bytesPerPixel {
		return nil, fmt.Errorf("%w: stride %d, width %d", ErrStrideTooSmall, stride, width)
	}
	if len(src) < stride*(height-1)+width*bytesPerPixel {
		return nil, fmt.Errorf("%w: have %d bytes", ErrShortBuffer, len(src))
	}

	dst := make([]byte, dstW*dstH*bytesPerPixel)
	for y := 0; y < dstH; y++ {
		row := src[(y*height/dstH)*stride:]
		out := dst[y*dstW*bytesPerPixel:]
		for x := 0; x < dstW; x++ {
			sx := (x * width / dstW) * bytesPerPixel
			copy(out[x*bytesPerPixel:(x+1)*bytesPerPixel], row[sx:sx+bytesPerPixel])
		}
	}
	return dst, nil
}

// Writer publishes previews into a directory.
type Writer struct {
	fs  afero.Fs
	dir string
}

// NewWriter returns a writer rooted at dir.
func NewWriter(fs afero.Fs, dir string) *Writer {
	return &Writer{fs: fs, dir: dir}
}

// Path returns the published preview path for a window token.
func (w *Writer) Path(token string) string {
	return path.Join(w.dir, filePrefix+token+fileSuffix)
}

func (w *Writer) tempPath(token string) string {
	return path.Join(w.dir, filePrefix+token+tempSuffix)
}

// Write downsamples a frame and atomically replaces the preview for token.
func (w *Writer) Write(token string, src []byte, width, height, stride int) error {
	pixels, err := Downsample(src, width, height, stride, Width, Height)
	if err != nil {
		return err
	}

	tmp := w.tempPath(token)
	if err := afero.WriteFile(w.fs, tmp, pixels, 0644); err != nil {
		return fmt.Errorf("failed to write thumbnail: %w", err)
	}
	if err := w.fs.Rename(tmp, w.Path(token)); err != nil {
		w.fs.Remove(tmp)
		return fmt.Errorf("failed to publish thumbnail: %w", err)
	}
	return nil
}

// Remove deletes the preview for token. A missing file is not an error.
func (w *Writer) Remove(token string) error {
	if err := w.fs.Remove(w.Path(token)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// CleanStale removes previews and temp files left by a previous session.
func (w *Writer) CleanStale() (int, error) {
	entries, err := afero.ReadDir(w.fs, w.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) {
			continue
		}
		if !strings.HasSuffix(name, fileSuffix) && !strings.HasSuffix(name, tempSuffix) {
			continue
		}
		if err := w.fs.Remove(path.Join(w.dir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}
