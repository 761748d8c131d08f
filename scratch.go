package pagesort

import (
	"errors"
	"fmt"
	"os"
)

// scratchFile is the working file the merge phases ping-pong with. It lives
// for one sort and is deleted afterwards.
type scratchFile struct {
	*PagedFile
}

func newScratchFile(dir string, opt Options) (*scratchFile, error) {
	tmp, err := os.CreateTemp(dir, "pagesort-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	path := tmp.Name()
	if err = tmp.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	f, err := OpenPagedFile(path, opt)
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return &scratchFile{PagedFile: f}, nil
}

func (s *scratchFile) remove() error {
	return errors.Join(s.discard(), os.Remove(s.Path()))
}
