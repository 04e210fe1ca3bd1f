package source

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"fortio.org/safecast"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}
	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}) {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				break
			}
			out = append(out, off)
		}
	}
	return out
}

// toLineCol maps a byte offset to a 1-based line/column pair.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// число переводов строки строго до off = номер строки (0-based)
	line, _ := slices.BinarySearch(lineIdx, off)
	var start uint32
	if line > 0 {
		start = lineIdx[line-1] + 1
	}
	ln, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		ln = ^uint32(0)
	}
	return LineCol{Line: ln, Col: off - start + 1}
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

var generatedSuffixes = []string{".g.cs", ".generated.cs", ".designer.cs", ".g.i.cs"}

// IsGeneratedPath reports whether the file name follows a generated-code
// naming convention.
func IsGeneratedPath(path string) bool {
	lower := strings.ToLower(path)
	for _, suf := range generatedSuffixes {
		if strings.HasSuffix(lower, suf) {
			return true
		}
	}
	return false
}

// HasGeneratedHeader reports whether the content starts with an
// "<auto-generated" comment, ignoring leading blank lines.
func HasGeneratedHeader(content []byte) bool {
	trimmed := bytes.TrimLeft(content, " \t\n")
	if !bytes.HasPrefix(trimmed, []byte("//")) && !bytes.HasPrefix(trimmed, []byte("/*")) {
		return false
	}
	line, _, _ := bytes.Cut(trimmed, []byte{'\n'})
	return bytes.Contains(bytes.ToLower(line), []byte("<auto-generated"))
}
