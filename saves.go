package notea

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dekarrin/notea/internal/game"
)

// SaveFileExt is the extension of save files written by DirSaver.
const SaveFileExt = ".sav"

// DirSaver is a game.Saver that keeps each slot in its own file in a
// directory. The directory is created on the first save.
type DirSaver struct {
	Dir string
}

func (ds DirSaver) path(slot string) (string, error) {
	if slot == "" || strings.ContainsAny(slot, `/\`) || slot == "." || slot == ".." {
		return "", fmt.Errorf("invalid save slot name %q", slot)
	}
	return filepath.Join(ds.Dir, slot+SaveFileExt), nil
}

// Save writes data to the slot's file, replacing what was there.
func (ds DirSaver) Save(ctx context.Context, slot string, data []byte) error {
	p, err := ds.path(slot)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(ds.Dir, 0o755); err != nil {
		return fmt.Errorf("create save directory: %w", err)
	}

	// write then rename so a failed save never clobbers the old one
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write save file: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("replace save file: %w", err)
	}
	return nil
}

// Load reads the slot's file. A missing file gives game.ErrNoSave.
func (ds DirSaver) Load(ctx context.Context, slot string) ([]byte, error) {
	p, err := ds.path(slot)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("slot %q: %w", slot, game.ErrNoSave)
		}
		return nil, fmt.Errorf("read save file: %w", err)
	}
	return data, nil
}
