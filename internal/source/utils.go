package source

import (
	"bytes"
	"path/filepath"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

func hasBOM(content []byte) bool {
	return bytes.HasPrefix(content, bom)
}

func hasCRLF(content []byte) bool {
	return bytes.Contains(content, []byte("\r\n"))
}

// buildLineIndex records the offset of every '\n'. A lone '\r' does not start a
// new display line; the scanner still treats it as a line break.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// Если LineIdx пустой, то весь файл - одна строка
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// бинпоиск: находим наибольший lineIdx[i] < off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	// hi: индекс последнего '\n' перед off, -1 если его нет
	if hi < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	startOff := lineIdx[hi] + 1
	return LineCol{Line: uint32(hi + 2), Col: off - startOff + 1}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
