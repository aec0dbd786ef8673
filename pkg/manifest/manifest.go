// Package manifest exports the set of installed packages to a YAML file
// and reads it back, optionally compressed with xz or zstd.
package manifest

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the manifest format version written by Write
const CurrentVersion = 1

// Entry describes one installation
type Entry struct {
	Name        string   `yaml:"name"`
	InstallSpec string   `yaml:"install_spec"`
	Python      string   `yaml:"python,omitempty"`
	Injected    []string `yaml:"injected,omitempty"`
}

// Manifest is the exported set of installations
type Manifest struct {
	Version  int     `yaml:"version"`
	Packages []Entry `yaml:"packages"`
}

// Compression selects the on-disk encoding
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionXZ   Compression = "xz"
	CompressionZstd Compression = "zstd"
	CompressionGzip Compression = "gzip"
)

// CompressionFor picks the compression from a file suffix
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		return CompressionXZ
	case ".zst", ".zstd":
		return CompressionZstd
	case ".gz":
		return CompressionGzip
	}
	return CompressionNone
}

// Sort orders entries by name
func (m *Manifest) Sort() {
	sort.Slice(m.Packages, func(i, j int) bool {
		return m.Packages[i].Name < m.Packages[j].Name
	})
}

// Encode writes m as YAML to w using the given compression
func Encode(w io.Writer, m *Manifest, c Compression) error {
	if m.Version == 0 {
		m.Version = CurrentVersion
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	var out io.WriteCloser
	switch c {
	case CompressionXZ:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return fmt.Errorf("creating xz writer: %w", err)
		}
		out = xw
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("creating zstd writer: %w", err)
		}
		out = zw
	case CompressionGzip:
		out = gzip.NewWriter(w)
	default:
		_, err := w.Write(data)
		return err
	}

	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("writing manifest: %w", err)
	}
	return out.Close()
}

// Decode reads a manifest from r using the given compression
func Decode(r io.Reader, c Compression) (*Manifest, error) {
	var reader io.Reader
	switch c {
	case CompressionXZ:
		x, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening xz stream: %w", err)
		}
		reader = x
	case CompressionZstd:
		zs, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		defer zs.Close()
		reader = zs
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		reader = gz
	default:
		reader = r
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Version > CurrentVersion {
		return nil, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	return m, nil
}

// Write saves m to path, compressing according to the suffix. An empty
// path or "-" writes uncompressed YAML to stdout.
func Write(path string, m *Manifest) error {
	if path == "" || path == "-" {
		return Encode(os.Stdout, m, CompressionNone)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, m, CompressionFor(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Read loads a manifest from path, decompressing according to the suffix
func Read(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	return Decode(f, CompressionFor(path))
}
