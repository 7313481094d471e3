package index

import (
	"bytes"
	"errors"
	"fmt"
	stdio "io"
	"io/fs"

	mlessio "github.com/TimelordUK/logpage/internal/io"
	"github.com/TimelordUK/logpage/internal/logerr"
)

// LineIndex stores the byte offset where each line starts, followed by a
// sentinel equal to the file size. It is never modified after Build returns.
type LineIndex struct {
	offsets []int64
}

// Build maps the file at path and indexes its line boundaries
func Build(path string) (*LineIndex, error) {
	file, err := mlessio.OpenMapped(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", logerr.ErrNotFound, err)
		}
		return nil, err
	}
	defer file.Close()

	return BuildFrom(file, file.Size())
}

// BuildFrom scans size bytes of r once and builds a line offset index.
// Offsets count raw bytes, terminators included, so they are exact for any
// text encoding.
func BuildFrom(r stdio.ReaderAt, size int64) (*LineIndex, error) {
	// Estimate initial capacity (assume ~100 bytes per line)
	offsets := make([]int64, 1, size/100+2)

	const chunkSize = 64 * 1024
	buf := make([]byte, chunkSize)

	var pos int64
	for pos < size {
		readSize := chunkSize
		if pos+int64(readSize) > size {
			readSize = int(size - pos)
		}

		n, err := r.ReadAt(buf[:readSize], pos)
		if err != nil && !(errors.Is(err, stdio.EOF) && n == readSize) {
			return nil, fmt.Errorf("read at %d: %w", pos, err)
		}

		chunk := buf[:n]
		offset := 0
		for {
			idx := bytes.IndexByte(chunk[offset:], '\n')
			if idx == -1 {
				break
			}
			offset += idx + 1
			offsets = append(offsets, pos+int64(offset))
		}

		pos += int64(n)
	}

	// Unterminated last line still counts; close it with the sentinel
	if offsets[len(offsets)-1] != size {
		offsets = append(offsets, size)
	}

	return &LineIndex{offsets: offsets}, nil
}

// LineCount returns the total number of lines
func (idx *LineIndex) LineCount() int {
	return len(idx.offsets) - 1
}

// Size returns the indexed file size in bytes
func (idx *LineIndex) Size() int64 {
	return idx.offsets[len(idx.offsets)-1]
}

// Offset returns the byte offset where line starts. Passing LineCount()
// yields the sentinel. Out of range lines return -1.
func (idx *LineIndex) Offset(line int) int64 {
	if line < 0 || line >= len(idx.offsets) {
		return -1
	}
	return idx.offsets[line]
}
