// Package archive keeps the raw match and timeline payloads on disk,
// zstd-compressed, so that rows can be rebuilt without calling the API again.
//
// Layout: <dir>/<platform>/<match id>.<kind>.json.zst
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Payload kinds.
const (
	KindMatch    = "match"
	KindTimeline = "timeline"
)

const suffix = ".json.zst"

// Archive writes and reads compressed payloads under a root directory.
type Archive struct {
	dir string
	enc *zstd.Encoder
}

// New creates the root directory if needed.
func New(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return &Archive{dir: dir, enc: enc}, nil
}

// Dir returns the root directory.
func (a *Archive) Dir() string { return a.dir }

// Path returns where a payload of the given kind is stored.
func (a *Archive) Path(matchID, kind string) string {
	return filepath.Join(a.dir, platformOf(matchID), matchID+"."+kind+suffix)
}

// Save compresses raw and writes it atomically. Empty payloads are ignored.
// Safe for concurrent use.
func (a *Archive) Save(matchID, kind string, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	path := a.Path(matchID, kind)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, a.enc.EncodeAll(raw, nil), 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

// Load returns the decompressed payload, or os.ErrNotExist.
func (a *Archive) Load(matchID, kind string) ([]byte, error) {
	f, err := os.Open(a.Path(matchID, kind))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer dec.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, dec); err != nil {
		return nil, fmt.Errorf("decompress %s: %w", matchID, err)
	}
	return buf.Bytes(), nil
}

// Has reports whether a payload exists.
func (a *Archive) Has(matchID, kind string) bool {
	_, err := os.Stat(a.Path(matchID, kind))
	return err == nil
}

// MatchIDs lists every archived match id in sorted order.
func (a *Archive) MatchIDs() ([]string, error) {
	var ids []string
	err := filepath.WalkDir(a.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() || !strings.HasSuffix(name, "."+KindMatch+suffix) {
			return nil
		}
		ids = append(ids, strings.TrimSuffix(name, "."+KindMatch+suffix))
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	sort.Strings(ids)
	return ids, err
}

// Close releases the encoder.
func (a *Archive) Close() error {
	return a.enc.Close()
}

// platformOf returns the lower-case prefix of a match id ("BR1_123" -> "br1").
func platformOf(matchID string) string {
	if i := strings.IndexByte(matchID, '_'); i > 0 {
		return strings.ToLower(matchID[:i])
	}
	return "unknown"
}
