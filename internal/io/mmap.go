package io

import (
	"fmt"
	stdio "io"
	"os"

	"golang.org/x/exp/mmap"
)

// MappedFile provides memory-mapped read access to a file
type MappedFile struct {
	reader *mmap.ReaderAt
	size   int64
	path   string
}

// OpenMapped opens a file with memory mapping
func OpenMapped(path string) (*MappedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	return &MappedFile{
		reader: reader,
		size:   int64(reader.Len()),
		path:   path,
	}, nil
}

// ReadAt reads len(p) bytes at offset
func (m *MappedFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= m.size {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, stdio.EOF
	}
	return m.reader.ReadAt(p, off)
}

// Size returns the file size
func (m *MappedFile) Size() int64 {
	return m.size
}

// Path returns the file path
func (m *MappedFile) Path() string {
	return m.path
}

// Close closes the memory mapping
func (m *MappedFile) Close() error {
	return m.reader.Close()
}

// ReadRange reads bytes from start to end
func (m *MappedFile) ReadRange(start, end int64) ([]byte, error) {
	if end > m.size {
		end = m.size
	}
	if start >= end {
		return nil, nil
	}

	buf := make([]byte, end-start)
	_, err := m.reader.ReadAt(buf, start)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// SectionFrom returns a reader over the bytes from start to end of file
func (m *MappedFile) SectionFrom(start int64) *stdio.SectionReader {
	if start > m.size {
		start = m.size
	}
	return stdio.NewSectionReader(m, start, m.size-start)
}
