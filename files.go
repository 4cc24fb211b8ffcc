package zshmod

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"
)

// FilePath is a filesystem path validated to exist at construction time,
// carrying a UTF-8 display form and that form's character count. Nothing
// re-checks existence after construction; staleness is the caller's
// problem.
type FilePath struct {
	path    string
	display string
	length  int
}

// NewFilePath builds a FilePath after confirming the path exists.
func NewFilePath(path string) (FilePath, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FilePath{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return FilePath{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return newFilePath(path), nil
}

// NewFilePathUnchecked builds a FilePath without checking existence.
func NewFilePathUnchecked(path string) FilePath {
	return newFilePath(path)
}

func newFilePath(path string) FilePath {
	display := strings.ToValidUTF8(path, string(utf8.RuneError))
	return FilePath{
		path:    path,
		display: display,
		length:  utf8.RuneCountInString(display),
	}
}

// Path returns the path exactly as given at construction.
func (p FilePath) Path() string { return p.path }

// String returns the display form, always valid UTF-8.
func (p FilePath) String() string { return p.display }

// Len returns the character count of the display form.
func (p FilePath) Len() int { return p.length }
