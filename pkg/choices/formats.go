// Package choices reads and writes option list files.
package choices

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownFormat is returned for files whose extension maps to no format.
var ErrUnknownFormat = errors.New("unknown option list format")

// maxOptions bounds the declared length of a binary list.
const maxOptions = 1000000

// FileFormat represents different option list file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // label<TAB>value lines
	FormatTOML               // [[option]] tables
	FormatYAML               // sequence of {label, value}
	FormatMsgpack            // msgpack array of {label, value}
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// FormatInfo contains metadata about an option list file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Option List",
		Extensions:  []string{".txt", ".tsv"},
		MinSize:     1,
	},
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML Option List",
		Extensions:  []string{".toml"},
		MinSize:     1,
	},
	FormatYAML: {
		Format:      FormatYAML,
		Description: "YAML Option List",
		Extensions:  []string{".yaml", ".yml"},
		MinSize:     1,
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Description: "Binary Option List",
		Extensions:  []string{".msgpack", ".bin"},
		MinSize:     1, // At least the array header
	},
}

// DetectFormat maps the extension of filename to a format.
func DetectFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if ext == e {
				return format, nil
			}
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
}

// ValidateFile checks if a file matches the expected format
func ValidateFile(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("%w: %v", ErrUnknownFormat, int(expectedFormat))
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatMsgpack {
		return validateBinaryFormat(filename)
	}
	return nil
}

// validateBinaryFormat reads the array header of a binary list
func validateBinaryFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	n, err := msgpack.NewDecoder(file).DecodeArrayLen()
	if err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if n < 0 {
		return fmt.Errorf("invalid option count in %s: %d (nil array)", filename, n)
	}
	if n > maxOptions {
		return fmt.Errorf("suspicious option count in %s: %d (too large)", filename, n)
	}

	log.Debugf("Binary file %s validated: %d options", filename, n)
	return nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats in format order
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for f := FormatText; f <= FormatMsgpack; f++ {
		formats = append(formats, supportedFormats[f])
	}
	return formats
}
