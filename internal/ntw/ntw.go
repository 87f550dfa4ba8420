// Package ntw loads game worlds from NTW (notea world) files. An NTW file is
// TOML or YAML, chosen by file extension, and is either a DATA file that
// describes rooms, things and handlers, or a MANIFEST file that lists other
// NTW files to combine into one world. Handler bodies are Lua snippets run by
// package script.
package ntw

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// MaxManifestRecursionDepth is how many manifests deep an inclusion chain can
// go.
const MaxManifestRecursionDepth = 32

// FormatName is the value the "format" key of every NTW file must have.
const FormatName = "NOTEA"

var (
	// ErrManifestEmpty is returned when a manifest lists no files that could
	// be loaded.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is returned when manifests include manifests
	// more than MaxManifestRecursionDepth levels deep.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is returned when a chain of manifests refers back
	// to a manifest already being loaded.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")
)

// Encoding is the serialization an NTW file is written in.
type Encoding int

const (
	TOML Encoding = iota
	YAML
)

func (e Encoding) String() string {
	switch e {
	case TOML:
		return "TOML"
	case YAML:
		return "YAML"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// EncodingOf gives the encoding of the file at path from its extension. Files
// ending in .yaml or .yml are YAML; everything else is TOML.
func EncodingOf(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return TOML
	}
}

// FileInfo is the header every NTW file has.
type FileInfo struct {
	Format string `toml:"format" yaml:"format"`
	Type   string `toml:"type" yaml:"type"`
}

// Manifest is a list of NTW files, relative to the manifest, to be combined.
type Manifest struct {
	Files []string
}

// Load reads the world in the NTW file at path. If the file is a manifest, the
// files it lists are loaded and combined first, recursively. The result is
// checked and ready to Build games from.
func Load(path string) (WorldData, error) {
	unmarshaled, err := recursiveUnmarshalResource(path, nil)
	if err != nil {
		return WorldData{}, err
	}
	return parseWorldData(unmarshaled)
}

// Parse reads world data from a single DATA file's contents.
func Parse(data []byte, enc Encoding) (WorldData, error) {
	unmarshaled, err := unmarshalWorldData(data, enc)
	if err != nil {
		return WorldData{}, err
	}
	return parseWorldData(unmarshaled)
}

// LoadManifestFile reads the manifest at path without following it.
func LoadManifestFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	unmarshaled, err := unmarshalManifest(data, EncodingOf(path))
	if err != nil {
		return Manifest{}, err
	}
	return Manifest{Files: unmarshaled.Files}, nil
}

// ScanFileInfo reads the header of an NTW file. For TOML, only the part of the
// file before the first table header is parsed.
func ScanFileInfo(data []byte, enc Encoding) (FileInfo, error) {
	var info FileInfo
	if enc == YAML {
		err := yaml.Unmarshal(data, &info)
		return info, err
	}

	topLevelEnd := -1
	var onNewLine bool
	for b := range data {
		if onNewLine && data[b] == '[' {
			topLevelEnd = b
			break
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	err := toml.Unmarshal(scanData, &info)
	return info, err
}
