// Package parser reads the member-per-line JSON object from files, strings and readers
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/jsonmodel/internal/errors" // Custom errors package
)

// Parse reads a line-delimited JSON object from reader. Reading stops at the first line
// containing a closing brace, which is kept as the last line.
func Parse(reader io.Reader) ([]string, error) {
	return ReadLines(bufio.NewScanner(reader))
}

// ReadLines consumes lines from scanner until the object closes. Lines are trimmed; blank
// lines and // comments are dropped.
func ReadLines(scanner *bufio.Scanner) ([]string, error) {
	lines := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		lines = append(lines, line)
		if strings.Contains(line, "}") {
			return lines, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewParsingError("failed to read input lines", err)
	}

	if len(lines) == 0 {
		return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	return nil, errors.NewParsingError(
		fmt.Sprintf("reached end of input after %d line(s) without a closing brace", len(lines)),
		errors.ErrUnterminatedObject,
	)
}

// ParseString parses a line-delimited JSON object held in a string
func ParseString(input string) ([]string, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(input))
}

// ParseFile parses a line-delimited JSON object from a file path
func ParseFile(filePath string) ([]string, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}
