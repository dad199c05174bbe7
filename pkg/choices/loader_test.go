package choices

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/listpick/pkg/picker"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var countries = []picker.Item{
	{Label: "Afghanistan", Value: "AF"},
	{Label: "Albania", Value: "AL"},
	{Label: "Algeria", Value: "DZ"},
}

func write(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad_Formats(t *testing.T) {
	binary, err := msgpack.Marshal(countries)
	require.NoError(t, err)

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"text", "list.txt", []byte("Afghanistan\tAF\nAlbania\tAL\n\n  \nAlgeria\tDZ\n")},
		{"text crlf", "list.tsv", []byte("Afghanistan\tAF\r\nAlbania\tAL\r\nAlgeria\tDZ\r\n")},
		{"toml", "list.toml", []byte(`
[[option]]
label = "Afghanistan"
value = "AF"

[[option]]
label = "Albania"
value = "AL"

[[option]]
label = "Algeria"
value = "DZ"
`)},
		{"yaml", "list.yaml", []byte(`
- label: Afghanistan
  value: AF
- label: Albania
  value: AL
- label: Algeria
  value: DZ
`)},
		{"msgpack", "list.msgpack", binary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Load(write(t, tt.file, tt.data))
			require.NoError(t, err)
			assert.Equal(t, countries, items)
		})
	}
}

func TestLoad_MissingValueDefaultsToLabel(t *testing.T) {
	items, err := Load(write(t, "list.txt", []byte("Albania\nAlgeria\tDZ\n")))
	require.NoError(t, err)

	assert.Equal(t, []picker.Item{
		{Label: "Albania", Value: "Albania"},
		{Label: "Algeria", Value: "DZ"},
	}, items)

	items, err = Load(write(t, "list.yml", []byte("- label: Albania\n")))
	require.NoError(t, err)
	assert.Equal(t, "Albania", items[0].Value)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unknown extension", func(t *testing.T) {
		_, err := Load(write(t, "list.csv", []byte("a,b")))
		assert.True(t, errors.Is(err, ErrUnknownFormat))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Load(write(t, "list.txt", nil))
		assert.ErrorContains(t, err, "too small")
	})

	t.Run("broken yaml", func(t *testing.T) {
		_, err := Load(write(t, "list.yaml", []byte("- label: [unclosed")))
		assert.Error(t, err)
	})

	t.Run("binary that is not an array", func(t *testing.T) {
		data, err := msgpack.Marshal("not a list")
		require.NoError(t, err)
		_, err = Load(write(t, "list.bin", data))
		assert.ErrorContains(t, err, "header")
	})
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"out.txt", "out.toml", "out.yaml", "out.msgpack"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			require.NoError(t, Save(path, countries))

			items, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, countries, items)
		})
	}
}

func TestSaveAndLoad_TextKeepsLabelsVerbatim(t *testing.T) {
	items := []picker.Item{
		{Label: "#1 Pick", Value: "one"},
		{Label: "  Albania ", Value: " AL"},
		{Label: "", Value: "blank label"},
		{Label: "Algeria", Value: "DZ"},
	}
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, Save(path, items))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestSave_Errors(t *testing.T) {
	dir := t.TempDir()

	err := Save(filepath.Join(dir, "out.csv"), countries)
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	for _, it := range []picker.Item{
		{Label: "a\tb"},
		{Label: "a\rb", Value: "x"},
		{Label: "a", Value: "b\nc"},
		{Label: "   ", Value: ""},
	} {
		err = Save(filepath.Join(dir, "out.txt"), []picker.Item{it})
		assert.Error(t, err, "%q", it.Label)
		assert.NoFileExists(t, filepath.Join(dir, "out.txt"))
	}
}

func TestEncode_EmptyBinaryList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatMsgpack, nil))

	items, err := Decode(&buf, FormatMsgpack)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		file string
		want FileFormat
	}{
		{"a.txt", FormatText},
		{"a.TSV", FormatText},
		{"a.toml", FormatTOML},
		{"a.yaml", FormatYAML},
		{"a.yml", FormatYAML},
		{"a.msgpack", FormatMsgpack},
		{"dir/a.bin", FormatMsgpack},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := DetectFormat(tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DetectFormat("a.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestValidateFile_WrongExtension(t *testing.T) {
	path := write(t, "list.txt", []byte("Albania\n"))

	err := ValidateFile(path, FormatYAML)
	assert.ErrorContains(t, err, "invalid extension")
	assert.NoError(t, ValidateFile(path, FormatText))
}

func TestListSupportedFormats(t *testing.T) {
	formats := ListSupportedFormats()
	require.Len(t, formats, 4)
	assert.Equal(t, FormatText, formats[0].Format)
	assert.Equal(t, FormatMsgpack, formats[3].Format)

	info, ok := GetFormatInfo(FormatTOML)
	require.True(t, ok)
	assert.Equal(t, []string{".toml"}, info.Extensions)
}
