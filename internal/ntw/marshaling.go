package ntw

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

func errDuplicate(key, existing string) error {
	return fmt.Errorf("duplicate %s; %s has already been defined as %q", key, key, existing)
}

// manifStack is the chain of manifests that led to path. It is used to catch
// circular references and to limit recursion to MaxManifestRecursionDepth.
//
// ErrManifestEmpty is returned only if the first manifest of the chain is
// empty.
func recursiveUnmarshalResource(path string, manifStack []string) (topLevelWorldData, error) {
	path = filepath.Clean(path)
	enc := EncodingOf(path)

	fileData, err := os.ReadFile(path)
	if err != nil {
		return topLevelWorldData{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	info, err := ScanFileInfo(fileData, enc)
	if err != nil {
		return topLevelWorldData{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}
	if strings.ToUpper(info.Format) != FormatName {
		return topLevelWorldData{}, fmt.Errorf("%q: file does not have a 'format = %q' entry", path, FormatName)
	}

	switch strings.ToUpper(info.Type) {
	case "DATA":
		unmarshaled, err := unmarshalWorldData(fileData, enc)
		if err != nil {
			return unmarshaled, fmt.Errorf("world data file %q: %w", path, err)
		}
		return unmarshaled, nil
	case "MANIFEST":
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelWorldData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return topLevelWorldData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		manif, err := unmarshalManifest(fileData, enc)
		if err != nil {
			return topLevelWorldData{}, fmt.Errorf("manifest file %q: %w", path, err)
		}
		if len(manif.Files) < 1 && len(manifStack) == 0 {
			return topLevelWorldData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}

		subStack := make([]string, len(manifStack)+1)
		copy(subStack, manifStack)
		subStack[len(subStack)-1] = path

		manifDir := filepath.Dir(path)
		var combined topLevelWorldData
		processed := 0

		for _, rel := range manif.Files {
			included := filepath.Join(manifDir, rel)

			unmarshaled, err := recursiveUnmarshalResource(included, subStack)
			if err != nil {
				// a file already being loaded further up the chain is
				// skipped, not fatal
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}
				return topLevelWorldData{}, fmt.Errorf("in file referred to by manifest file:\n    %q\n%w", path, err)
			}

			if err := combined.merge(unmarshaled); err != nil {
				return topLevelWorldData{}, fmt.Errorf("world data file %q: %w", included, err)
			}
			processed++
		}

		if len(manifStack) == 0 && processed == 0 {
			return topLevelWorldData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return combined, nil
	default:
		return topLevelWorldData{}, fmt.Errorf("%q: file does not have 'type' set to either \"DATA\" or \"MANIFEST\"", path)
	}
}

func decode(data []byte, enc Encoding, v interface{}) error {
	if enc == YAML {
		return yaml.Unmarshal(data, v)
	}
	return toml.Unmarshal(data, v)
}

// unmarshalWorldData decodes a DATA file. It does not check the world.
func unmarshalWorldData(data []byte, enc Encoding) (topLevelWorldData, error) {
	var ntw topLevelWorldData
	if err := decode(data, enc, &ntw); err != nil {
		return ntw, err
	}

	if strings.ToUpper(ntw.Format) != FormatName {
		return ntw, fmt.Errorf("in header: 'format' key must exist and be set to %q", FormatName)
	}
	if strings.ToUpper(ntw.Type) != "DATA" {
		return ntw, fmt.Errorf("in header: 'type' must exist and be set to 'DATA'")
	}
	return ntw, nil
}

// unmarshalManifest decodes a MANIFEST file.
func unmarshalManifest(data []byte, enc Encoding) (topLevelManifest, error) {
	var ntw topLevelManifest
	if err := decode(data, enc, &ntw); err != nil {
		return ntw, err
	}

	if strings.ToUpper(ntw.Format) != FormatName {
		return ntw, fmt.Errorf("in header: 'format' key must exist and be set to %q", FormatName)
	}
	if strings.ToUpper(ntw.Type) != "MANIFEST" {
		return ntw, fmt.Errorf("in header: 'type' must exist and be set to 'MANIFEST'")
	}
	return ntw, nil
}
