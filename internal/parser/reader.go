package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/alt-ctrl-dev/aba-validator/internal/models"
)

// OpenABAFile opens a file for decoding after checking it exists, is a
// regular file and is not empty.
func OpenABAFile(filePath string) (*os.File, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, mapOpenError(filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileDoesNotExist, filePath)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoContent, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, mapOpenError(filePath, err)
	}
	return file, nil
}

func mapOpenError(filePath string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrFileDoesNotExist, filePath)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, filePath)
	default:
		return fmt.Errorf("%w: failed to open file %s: %v", ErrInternal, filePath, err)
	}
}

// ScanLines hands every line of r to fn in order, numbered from 1, with the
// line terminator removed. Scanning stops at the first error fn returns and
// that error is returned unchanged.
func ScanLines(r io.Reader, fn func(models.Line) error) error {
	reader := bufio.NewReader(r)
	number := 0
	for {
		text, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("%w: failed to read line %d: %w", ErrInternal, number+1, err)
		}
		if text == "" && err == io.EOF {
			return nil
		}

		number++
		text = strings.TrimSuffix(text, "\n")
		text = strings.TrimSuffix(text, "\r")
		if fnErr := fn(models.Line{Number: number, Text: text}); fnErr != nil {
			return fnErr
		}

		if err == io.EOF {
			return nil
		}
	}
}
