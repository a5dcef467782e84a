// Package app provides save state functionality for the NES emulator.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gones/internal/bus"
	"gones/internal/savestate"

	"github.com/golang/glog"
)

// StateManager manages save state slots: it pairs a small JSON
// metadata sidecar (for listing slots without decoding the full
// snapshot) with the binary gob snapshot internal/savestate produces.
type StateManager struct {
	saveDirectory string
	maxSlots      int
	initialized   bool
}

// StateMeta is the JSON sidecar stored next to each binary snapshot.
type StateMeta struct {
	Version     string    `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	ROMPath     string    `json:"rom_path"`
	ROMChecksum string    `json:"rom_checksum"`
	SlotNumber  int       `json:"slot_number"`
	Description string    `json:"description"`
	FrameCount  uint64    `json:"frame_count"`
	CycleCount  uint64    `json:"cycle_count"`
}

// StateSlotInfo contains information about a save state slot
type StateSlotInfo struct {
	SlotNumber  int       `json:"slot_number"`
	Used        bool      `json:"used"`
	Timestamp   time.Time `json:"timestamp"`
	ROMPath     string    `json:"rom_path"`
	Description string    `json:"description"`
	FilePath    string    `json:"file_path"`
	FileSize    int64     `json:"file_size"`
}

const stateMetaVersion = "1.0"

// NewStateManager creates a new state manager
func NewStateManager(saveDirectory string) *StateManager {
	manager := &StateManager{
		saveDirectory: saveDirectory,
		maxSlots:      10, // Default to 10 save slots
		initialized:   false,
	}

	if err := manager.initialize(); err != nil {
		glog.Warningf("app: state manager initialization failed: %v", err)
	}

	return manager
}

// initialize initializes the state manager
func (sm *StateManager) initialize() error {
	if err := os.MkdirAll(sm.saveDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %v", err)
	}

	sm.initialized = true
	return nil
}

// SaveState snapshots the console's full state and writes it to a slot.
func (sm *StateManager) SaveState(b *bus.Bus, slot int, romPath string) error {
	if !sm.initialized {
		return fmt.Errorf("state manager not initialized")
	}
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d (must be 0-%d)", slot, sm.maxSlots-1)
	}
	if b == nil {
		return fmt.Errorf("bus cannot be nil")
	}

	blob, err := savestate.Save(b)
	if err != nil {
		return fmt.Errorf("failed to save state: %v", err)
	}

	meta := StateMeta{
		Version:     stateMetaVersion,
		Timestamp:   time.Now(),
		ROMPath:     romPath,
		ROMChecksum: sm.calculateROMChecksum(romPath),
		SlotNumber:  slot,
		Description: fmt.Sprintf("Save %s", time.Now().Format("2006-01-02 15:04:05")),
		FrameCount:  b.GetFrameCount(),
		CycleCount:  b.GetCycleCount(),
	}

	statePath, metaPath := sm.slotFilePaths(slot, romPath)
	if err := os.MkdirAll(filepath.Dir(statePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(statePath, blob, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %v", err)
	}
	if err := sm.writeMeta(metaPath, meta); err != nil {
		return fmt.Errorf("failed to write state metadata: %v", err)
	}

	glog.V(1).Infof("app: saved state slot %d (%d bytes)", slot, len(blob))
	return nil
}

// LoadState reads a slot's snapshot and restores it onto the console.
func (sm *StateManager) LoadState(b *bus.Bus, slot int, romPath string) error {
	if !sm.initialized {
		return fmt.Errorf("state manager not initialized")
	}
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d (must be 0-%d)", slot, sm.maxSlots-1)
	}
	if b == nil {
		return fmt.Errorf("bus cannot be nil")
	}

	statePath, metaPath := sm.slotFilePaths(slot, romPath)
	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		return fmt.Errorf("save state not found in slot %d", slot)
	}

	meta, err := sm.readMeta(metaPath)
	if err != nil {
		return fmt.Errorf("failed to load state metadata: %v", err)
	}
	if err := sm.validateMeta(meta, romPath); err != nil {
		return fmt.Errorf("invalid save state: %v", err)
	}

	blob, err := os.ReadFile(statePath)
	if err != nil {
		return fmt.Errorf("failed to load state: %v", err)
	}
	if err := savestate.Load(b, blob); err != nil {
		return fmt.Errorf("failed to restore state: %v", err)
	}

	glog.V(1).Infof("app: loaded state slot %d (frame %d)", slot, meta.FrameCount)
	return nil
}

func (sm *StateManager) writeMeta(path string, meta StateMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %v", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (sm *StateManager) readMeta(path string) (*StateMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %v", err)
	}
	var meta StateMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %v", err)
	}
	return &meta, nil
}

func (sm *StateManager) validateMeta(meta *StateMeta, currentROMPath string) error {
	if meta.Version == "" {
		return fmt.Errorf("missing version information")
	}
	if meta.ROMPath != currentROMPath {
		return fmt.Errorf("save state is for a different ROM")
	}
	return nil
}

// slotFilePaths generates the binary state and JSON metadata paths
// for a save slot.
func (sm *StateManager) slotFilePaths(slot int, romPath string) (statePath, metaPath string) {
	romName := filepath.Base(romPath)
	romNameWithoutExt := romName[:len(romName)-len(filepath.Ext(romName))]
	base := fmt.Sprintf("%s_slot_%d", romNameWithoutExt, slot)
	return filepath.Join(sm.saveDirectory, base+".state"),
		filepath.Join(sm.saveDirectory, base+".meta.json")
}

// calculateROMChecksum calculates a checksum for ROM verification
func (sm *StateManager) calculateROMChecksum(romPath string) string {
	// Simplified checksum - in a real implementation,
	// you would calculate MD5/SHA256 of the ROM file
	return fmt.Sprintf("checksum_%s", filepath.Base(romPath))
}

// GetSlotInfo returns information about all save slots
func (sm *StateManager) GetSlotInfo(romPath string) []StateSlotInfo {
	slots := make([]StateSlotInfo, sm.maxSlots)

	for i := 0; i < sm.maxSlots; i++ {
		slotInfo := StateSlotInfo{
			SlotNumber: i,
			Used:       false,
		}

		statePath, metaPath := sm.slotFilePaths(i, romPath)
		if stat, err := os.Stat(statePath); err == nil {
			slotInfo.Used = true
			slotInfo.FilePath = statePath
			slotInfo.FileSize = stat.Size()
			slotInfo.Timestamp = stat.ModTime()

			if meta, err := sm.readMeta(metaPath); err == nil {
				slotInfo.ROMPath = meta.ROMPath
				slotInfo.Description = meta.Description
				slotInfo.Timestamp = meta.Timestamp
			}
		}

		slots[i] = slotInfo
	}

	return slots
}

// DeleteState deletes a save state from a slot
func (sm *StateManager) DeleteState(slot int, romPath string) error {
	if !sm.initialized {
		return fmt.Errorf("state manager not initialized")
	}
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d", slot)
	}

	statePath, metaPath := sm.slotFilePaths(slot, romPath)
	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		return fmt.Errorf("save state not found in slot %d", slot)
	}

	if err := os.Remove(statePath); err != nil {
		return fmt.Errorf("failed to delete save state: %v", err)
	}
	os.Remove(metaPath) // best-effort; a missing sidecar isn't fatal

	return nil
}

// HasSaveState checks if a save state exists in a slot
func (sm *StateManager) HasSaveState(slot int, romPath string) bool {
	if slot < 0 || slot >= sm.maxSlots {
		return false
	}

	statePath, _ := sm.slotFilePaths(slot, romPath)
	_, err := os.Stat(statePath)
	return err == nil
}

// GetMaxSlots returns the maximum number of save slots
func (sm *StateManager) GetMaxSlots() int {
	return sm.maxSlots
}

// SetMaxSlots sets the maximum number of save slots
func (sm *StateManager) SetMaxSlots(slots int) {
	if slots > 0 {
		sm.maxSlots = slots
	}
}

// GetSaveDirectory returns the save directory path
func (sm *StateManager) GetSaveDirectory() string {
	return sm.saveDirectory
}

// SetSaveDirectory sets the save directory path
func (sm *StateManager) SetSaveDirectory(directory string) error {
	sm.saveDirectory = directory
	return sm.initialize()
}

// ExportState exports a save state to a specific file path.
func (sm *StateManager) ExportState(b *bus.Bus, filePath string, romPath string) error {
	blob, err := savestate.Save(b)
	if err != nil {
		return fmt.Errorf("failed to export state: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}
	return os.WriteFile(filePath, blob, 0644)
}

// ImportState imports a save state from a specific file path.
func (sm *StateManager) ImportState(b *bus.Bus, filePath string, romPath string) error {
	blob, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to import state: %v", err)
	}
	return savestate.Load(b, blob)
}

// Cleanup cleans up state manager resources
func (sm *StateManager) Cleanup() error {
	sm.initialized = false
	return nil
}

// GetStateManagerStats returns statistics about the state manager
func (sm *StateManager) GetStateManagerStats(romPath string) StateManagerStats {
	slots := sm.GetSlotInfo(romPath)

	var usedSlots int
	var totalSize int64
	for _, slot := range slots {
		if slot.Used {
			usedSlots++
			totalSize += slot.FileSize
		}
	}

	return StateManagerStats{
		MaxSlots:      sm.maxSlots,
		UsedSlots:     usedSlots,
		FreeSlots:     sm.maxSlots - usedSlots,
		TotalSize:     totalSize,
		SaveDirectory: sm.saveDirectory,
		Initialized:   sm.initialized,
	}
}

// StateManagerStats contains state manager statistics
type StateManagerStats struct {
	MaxSlots      int    `json:"max_slots"`
	UsedSlots     int    `json:"used_slots"`
	FreeSlots     int    `json:"free_slots"`
	TotalSize     int64  `json:"total_size"`
	SaveDirectory string `json:"save_directory"`
	Initialized   bool   `json:"initialized"`
}
