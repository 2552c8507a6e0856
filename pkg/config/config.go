// Package config persists editor settings and scene documents. The
// geometry core talks to a Provider interface so tests can run without
// touching disk.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/chisel-cad/chisel/pkg/scene"
)

// Settings are the user-tunable knobs, stored as TOML.
type Settings struct {
	// MeshCells is the marching cubes resolution for tessellation.
	MeshCells int `toml:"mesh_cells"`
	// SharpAngle is the dihedral threshold in degrees for sharp-edge
	// classification.
	SharpAngle float64 `toml:"sharp_angle"`
	// PickTolerance is the edge-pick radius in pixels.
	PickTolerance float64 `toml:"pick_tolerance"`
	// Autosave enables writing the scene after every mutation.
	Autosave bool `toml:"autosave"`
}

// DefaultSettings returns the defaults used when no settings file
// exists.
func DefaultSettings() Settings {
	return Settings{
		MeshCells:     100,
		SharpAngle:    30,
		PickTolerance: 8,
		Autosave:      true,
	}
}

// Provider persists settings and scene documents.
type Provider interface {
	LoadSettings() (Settings, error)
	SaveSettings(Settings) error
	// LoadScene returns the saved scene, or (nil, nil) when none has
	// been saved yet.
	LoadScene() (*scene.Scene, error)
	SaveScene(*scene.Scene) error
	Autosave(*scene.Scene) error
}

const (
	settingsFile = "settings.toml"
	sceneFile    = "scene.json"
	autosaveFile = "autosave.json"
)

// FileProvider stores settings and scenes in a config directory.
type FileProvider struct {
	dir string
}

// NewFileProvider returns a provider rooted at dir, creating it if
// needed.
func NewFileProvider(dir string) (*FileProvider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}
	return &FileProvider{dir: dir}, nil
}

// LoadSettings reads the TOML settings file, returning defaults when
// the file does not exist.
func (p *FileProvider) LoadSettings() (Settings, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, settingsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return DefaultSettings(), err
	}
	s := DefaultSettings()
	if err := toml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// SaveSettings writes the TOML settings file.
func (p *FileProvider) SaveSettings(s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return writeAtomic(filepath.Join(p.dir, settingsFile), data)
}

// LoadScene reads the saved scene document. A missing file is not an
// error; a malformed file is.
func (p *FileProvider) LoadScene() (*scene.Scene, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, sceneFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return scene.Import(data)
}

// SaveScene writes the scene document.
func (p *FileProvider) SaveScene(sc *scene.Scene) error {
	data, err := scene.Export(sc)
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(p.dir, sceneFile), data)
}

// Autosave writes the scene to the autosave slot, leaving the explicit
// save untouched.
func (p *FileProvider) Autosave(sc *scene.Scene) error {
	data, err := scene.Export(sc)
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(p.dir, autosaveFile), data)
}

// writeAtomic writes via a temp file and rename so a crash never
// leaves a half-written document.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// MemoryProvider keeps everything in process memory.
type MemoryProvider struct {
	settings    *Settings
	sceneData   []byte
	autosaveRaw []byte
}

// NewMemoryProvider returns an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{}
}

func (p *MemoryProvider) LoadSettings() (Settings, error) {
	if p.settings == nil {
		return DefaultSettings(), nil
	}
	return *p.settings, nil
}

func (p *MemoryProvider) SaveSettings(s Settings) error {
	p.settings = &s
	return nil
}

func (p *MemoryProvider) LoadScene() (*scene.Scene, error) {
	if p.sceneData == nil {
		return nil, nil
	}
	return scene.Import(p.sceneData)
}

func (p *MemoryProvider) SaveScene(sc *scene.Scene) error {
	data, err := scene.Export(sc)
	if err != nil {
		return err
	}
	p.sceneData = data
	return nil
}

func (p *MemoryProvider) Autosave(sc *scene.Scene) error {
	data, err := scene.Export(sc)
	if err != nil {
		return err
	}
	p.autosaveRaw = data
	return nil
}

// InitialScene loads the startup scene from a provider. Any failure is
// logged and degrades to an empty scene; startup never fails on a bad
// scene file.
func InitialScene(p Provider, logger *log.Logger) *scene.Scene {
	if logger == nil {
		logger = log.Default()
	}
	sc, err := p.LoadScene()
	if err != nil {
		logger.Warn("initial scene unreadable, starting empty", "err", err)
		return scene.New()
	}
	if sc == nil {
		return scene.New()
	}
	return sc
}
