package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// tail tracks how far a followed file has been consumed.
type tail struct {
	path    string
	info    os.FileInfo // file last read, to spot replacement
	head    []byte      // leading bytes of that file, to spot rewrites
	offset  int64
	partial []byte
	line    int
}

func (t *tail) reset() {
	t.info, t.head, t.offset, t.partial = nil, nil, 0, nil
}

// Follow reads path from the start, then keeps reading whatever is appended
// until ctx is done. A file that shrinks, or a different file moved or
// created at path, is read again from the beginning. The file does not need
// to exist yet.
func (f *Feed) Follow(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory so creation and replacement are seen too
	dir := filepath.Dir(absPath)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	f.logger.Info("following notifications", "path", absPath)

	t := &tail{path: absPath}
	f.drain(t)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				f.drain(t)
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				f.logger.Info("input file moved away, waiting for a new one", "path", absPath)
				t.reset()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.logger.Error("file watcher error", "error", err)
		}
	}
}

const headSize = 256

// readHead returns up to headSize leading bytes of file.
func readHead(file *os.File, size int64) []byte {
	head := make([]byte, min(size, headSize))
	n, _ := file.ReadAt(head, 0)
	return head[:n]
}

// sameHead reports whether file still starts with head. A truncate followed
// by a refill can leave the size past the old offset; the leading bytes
// usually tell the two files apart.
func sameHead(file *os.File, head []byte) bool {
	if len(head) == 0 {
		return true
	}
	buf := make([]byte, len(head))
	n, _ := file.ReadAt(buf, 0)
	return bytes.Equal(buf[:n], head)
}

// drain handles every complete line appended since the last call.
func (f *Feed) drain(t *tail) {
	file, err := os.Open(t.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.Error("failed to open input", "path", t.path, "error", err)
		}
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		f.logger.Error("failed to stat input", "path", t.path, "error", err)
		return
	}
	switch {
	case t.info != nil && !os.SameFile(t.info, info):
		f.logger.Info("input replaced, reading from the start", "path", t.path)
		t.reset()
	case info.Size() < t.offset, !sameHead(file, t.head):
		f.logger.Info("input truncated, reading from the start", "path", t.path)
		t.reset()
	}
	t.info = info
	if len(t.head) < headSize {
		t.head = readHead(file, info.Size())
	}

	if _, err := file.Seek(t.offset, io.SeekStart); err != nil {
		f.logger.Error("failed to seek input", "path", t.path, "error", err)
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, info.Size()-t.offset))
	if err != nil {
		f.logger.Error("failed to read input", "path", t.path, "error", err)
		return
	}
	t.offset += int64(len(data))

	data = append(t.partial, data...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		t.line++
		f.process(t.line, data[:i])
		data = data[i+1:]
	}

	if len(data) > maxLineSize {
		f.logger.Error("dropping oversized line", "path", t.path, "bytes", len(data))
		data = nil
	}
	t.partial = append([]byte(nil), data...)
}
