package lighting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Save writes m as zstd-compressed JSON.
func Save(w io.Writer, m *Lightmap) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(m); err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode lightmap: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush lightmap: %w", err)
	}
	return nil
}

// Load reads a lightmap written by Save.
func Load(r io.Reader) (*Lightmap, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer dec.Close()

	var m Lightmap
	if err := json.NewDecoder(dec).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode lightmap: %w", err)
	}
	if len(m.Cells) != m.Width*m.Height {
		return nil, fmt.Errorf("lightmap has %d cells, expected %dx%d", len(m.Cells), m.Width, m.Height)
	}
	return &m, nil
}

// SaveFile writes m to path.
func SaveFile(path string, m *Lightmap) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create lightmap file: %w", err)
	}
	if err := Save(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a lightmap from path.
func LoadFile(path string) (*Lightmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lightmap file: %w", err)
	}
	defer f.Close()
	return Load(f)
}
