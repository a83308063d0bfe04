package core

import (
	"hash/crc32"
	"os"
)

// readFileCRC32 loads a content pack file and checksums it for the
// PackStart handshake (§2B: hash/crc32 for the content-pack checksum).
func readFileCRC32(path string) ([]byte, uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	return data, crc32.ChecksumIEEE(data), nil
}
