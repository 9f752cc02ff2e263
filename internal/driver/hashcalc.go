package driver

import (
	"crypto/sha256"
	"encoding/binary"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// CacheKey: H(schema || content || mode || offsets... || 0xff || lines...). Одинаковый файл с
// другим запросом даёт другой ключ.
func CacheKey(content [32]byte, req ScanRequest) Digest {
	h := sha256.New()
	var buf [4]byte
	binary.LittleEndian.PutUint16(buf[:2], diskCacheSchemaVersion)
	_, _ = h.Write(buf[:2])
	_, _ = h.Write(content[:])
	_, _ = h.Write([]byte{byte(req.Mode)})
	for _, off := range req.offsets() {
		binary.LittleEndian.PutUint32(buf[:], off)
		_, _ = h.Write(buf[:])
	}
	// разделитель: offsets {1, 2} и позиция 1:2 не должны совпасть
	_, _ = h.Write([]byte{0xff})
	for _, lc := range req.Lines {
		binary.LittleEndian.PutUint32(buf[:], lc.Line)
		_, _ = h.Write(buf[:])
		binary.LittleEndian.PutUint32(buf[:], lc.Col)
		_, _ = h.Write(buf[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
