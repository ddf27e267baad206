package fs

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

type unicodeEncoding int

const (
	encodingUnknown unicodeEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

// contentSearchExtensions lists the text-like extensions whose bodies are searched
// when content search is enabled. Everything else is matched by name only.
var contentSearchExtensions = []string{
	".txt",
	".py",
	".md",
	".html",
	".css",
	".js",
	".go",
	".json",
	".csv",
	".log",
	".xml",
	".yaml",
	".yml",
}

// IsContentSearchable reports whether name carries one of the text-like extensions.
func IsContentSearchable(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range contentSearchExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ContentSearchExtensions returns a copy of the allowlist.
func ContentSearchExtensions() []string {
	out := make([]string, len(contentSearchExtensions))
	copy(out, contentSearchExtensions)
	return out
}

// ReadText reads the whole file and decodes it permissively: BOM-marked UTF-8 and
// UTF-16 are converted, and invalid byte sequences become U+FFFD.
func ReadText(path string) (string, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	return NormalizeTextContent(content), nil
}

// NormalizeTextContent converts known Unicode BOM-encoded content into a valid UTF-8 string.
func NormalizeTextContent(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	var text string
	switch detectUnicodeEncoding(content) {
	case encodingUTF8BOM:
		text = string(content[3:])
	case encodingUTF16LE:
		text = decodeUTF16(content, unicode.LittleEndian)
	case encodingUTF16BE:
		text = decodeUTF16(content, unicode.BigEndian)
	default:
		text = string(content)
	}

	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	return text
}

func detectUnicodeEncoding(sample []byte) unicodeEncoding {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return encodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return encodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return encodingUTF16BE
		}
	}
	return encodingUnknown
}

func decodeUTF16(content []byte, endian unicode.Endianness) string {
	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	out, err := decoder.Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(out)
}
