package choices

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/listpick/pkg/picker"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// tomlList is the shape of a TOML option list:
//
//	[[option]]
//	label = "Albania"
//	value = "AL"
type tomlList struct {
	Option []picker.Item `toml:"option"`
}

// Load reads the option list at path, choosing the decoder by extension.
// Options without a value take their label as value.
func Load(path string) ([]picker.Item, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if err := ValidateFile(path, format); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open option list %s: %w", path, err)
	}
	defer file.Close()

	items, err := Decode(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load option list %s: %w", path, err)
	}
	log.Debugf("Loaded %d options from %s (%s)", len(items), path, format)
	return items, nil
}

// Decode reads an option list of the given format from r.
func Decode(r io.Reader, format FileFormat) ([]picker.Item, error) {
	var items []picker.Item
	switch format {
	case FormatText:
		var err error
		if items, err = decodeText(r); err != nil {
			return nil, err
		}
	case FormatTOML:
		var list tomlList
		if _, err := toml.NewDecoder(r).Decode(&list); err != nil {
			return nil, err
		}
		items = list.Option
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&items); err != nil && err != io.EOF {
			return nil, err
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&items); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, int(format))
	}
	return fillValues(items), nil
}

// decodeText reads one option per line as label, an optional tab, and value.
// Blank lines are skipped; everything else is kept verbatim.
func decodeText(r io.Reader) ([]picker.Item, error) {
	var items []picker.Item
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		label, value, _ := strings.Cut(line, "\t")
		items = append(items, picker.Item{Label: label, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func fillValues(items []picker.Item) []picker.Item {
	for i := range items {
		if items[i].Value == "" {
			items[i].Value = items[i].Label
		}
	}
	return items
}

// Save writes items to path in the format implied by its extension.
// The file is replaced atomically.
func Save(path string, items []picker.Item) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".listpick-options-*")
	if err != nil {
		return fmt.Errorf("failed to create option list %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, format, items); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write option list %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Encode writes items to w in the given format.
func Encode(w io.Writer, format FileFormat, items []picker.Item) error {
	if items == nil {
		items = []picker.Item{}
	}
	switch format {
	case FormatText:
		bw := bufio.NewWriter(w)
		for _, it := range items {
			if !textSafe(it) {
				return fmt.Errorf("option %q cannot be stored as text", it.Label)
			}
			fmt.Fprintf(bw, "%s\t%s\n", it.Label, it.Value)
		}
		return bw.Flush()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(tomlList{Option: items})
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(items); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(items)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, int(format))
	}
}

// textSafe reports whether it survives a text round trip: decodeText splits
// on tabs and line breaks and skips blank lines.
func textSafe(it picker.Item) bool {
	if strings.ContainsAny(it.Label, "\t\r\n") || strings.ContainsAny(it.Value, "\t\r\n") {
		return false
	}
	return strings.TrimSpace(it.Label+it.Value) != ""
}
