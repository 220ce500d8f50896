package build

import (
	"bytes"
	"hash/crc32"
	"os"
)

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// contentHash returns the CRC32-Castagnoli checksum of data.
func contentHash(data []byte) uint32 {
	return crc32.Checksum(data, crcTable)
}

// sameContent reports whether the file at path already holds data. Missing
// or unreadable files never match.
func sameContent(path string, data []byte) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() != int64(len(data)) {
		return false
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return bytes.Equal(existing, data)
}
