// Package savestate implements raw snapshot save/load for the full
// console state: every component's registers and working RAM, gob-
// encoded. It does not attempt cross-version compatibility; a save
// file is only ever loaded back by the same emulator build that wrote
// it, against the same ROM.
package savestate

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"gones/internal/bus"

	"github.com/golang/glog"
)

// formatMagic identifies a gones save file; formatVersion bumps any
// time the on-disk State layout changes incompatibly.
const (
	formatMagic   = "GONESAVE"
	formatVersion = 1
)

// file is the on-disk envelope: a magic/version header plus the
// console snapshot, so Load can reject foreign or stale files before
// gob ever sees them.
type file struct {
	Magic   string
	Version int
	State   bus.State
}

// Save serializes the console's entire state to a gob-encoded byte
// slice suitable for writing to a save-state file.
func Save(b *bus.Bus) ([]byte, error) {
	snapshot, err := b.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("savestate: %w", err)
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(file{Magic: formatMagic, Version: formatVersion, State: snapshot}); err != nil {
		return nil, fmt.Errorf("savestate: encode: %w", err)
	}

	glog.V(1).Infof("savestate: saved %d bytes at frame %d", buf.Len(), snapshot.FrameCount)
	return buf.Bytes(), nil
}

// Load decodes a save-state byte slice and restores it onto b. The
// cartridge already loaded on b must match the one the save was taken
// against; Load does not re-create or swap cartridges.
func Load(b *bus.Bus, data []byte) error {
	var f file
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("savestate: decode: %w", err)
	}

	if f.Magic != formatMagic {
		return fmt.Errorf("savestate: not a gones save file")
	}
	if f.Version != formatVersion {
		return fmt.Errorf("savestate: unsupported save format version %d", f.Version)
	}

	if err := b.Restore(f.State); err != nil {
		return fmt.Errorf("savestate: %w", err)
	}

	glog.V(1).Infof("savestate: loaded save at frame %d", f.State.FrameCount)
	return nil
}
