package voxel

import (
	"bytes"
	"compress/flate"
	"io"
)

// Dump serializes the full map as a sequence of (solid, r, g, b) cells
// in x-fastest, then y, then z order, and returns it raw-deflated so it
// fits the MapStart/MapChunk streaming packets (§4.6, §6).
func (m *Map) Dump() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var raw bytes.Buffer
	raw.Grow(len(m.solid) * 4)
	for i, solid := range m.solid {
		if solid {
			raw.WriteByte(1)
		} else {
			raw.WriteByte(0)
		}
		c := m.color[i]
		raw.WriteByte(c.R)
		raw.WriteByte(c.G)
		raw.WriteByte(c.B)
	}

	var out bytes.Buffer
	fw, err := flate.NewWriter(&out, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(raw.Bytes()); err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Chunks splits a compressed dump into chunkSize pieces for successive
// MapChunk packets.
func Chunks(compressed []byte, chunkSize int) [][]byte {
	if chunkSize <= 0 {
		chunkSize = 8192
	}
	var chunks [][]byte
	for off := 0; off < len(compressed); off += chunkSize {
		end := off + chunkSize
		if end > len(compressed) {
			end = len(compressed)
		}
		chunks = append(chunks, compressed[off:end])
	}
	return chunks
}

// LoadDump rebuilds a map's contents from a raw-deflated dump produced
// by Dump, into an already-allocated map of matching dimensions.
func (m *Map) LoadDump(compressed []byte) error {
	fr := flate.NewReader(bytes.NewReader(compressed))
	defer fr.Close()

	raw, err := io.ReadAll(fr)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.solid)
	for i := 0; i < n && i*4+3 < len(raw); i++ {
		m.solid[i] = raw[i*4] != 0
		m.color[i] = RGB{R: raw[i*4+1], G: raw[i*4+2], B: raw[i*4+3]}
	}
	return nil
}
