// Package session keeps the editor state that outlives a run: combo
// selections, recently used paths and the autosaved preset.
package session

import (
	"bytes"
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/particle-editor/internal/preset"
)

// State is what the editor restores on startup.
type State struct {
	ShapeIndex     int    `yaml:"shapeIndex"`
	BlendIndex     int    `yaml:"blendIndex"`
	LastPresetPath string `yaml:"lastPresetPath"`
	LastPresetDir  string `yaml:"lastPresetDir"`
	LastTextureDir string `yaml:"lastTextureDir"`
	LastSoundDir   string `yaml:"lastSoundDir"`
}

const (
	sessionObject = "session"
	stateProperty = "state"
	autosaveProp  = "autosave"
)

// Manager loads and saves State through gdata. A nil gdata manager is
// allowed: state then lives in memory only.
type Manager struct {
	gdataManager *gdata.Manager
	state        *State
}

func NewManager(gdataManager *gdata.Manager) *Manager {
	m := &Manager{gdataManager: gdataManager, state: &State{}}
	if err := m.Load(); err != nil {
		log.Printf("[Session] Warning: failed to load session: %v (starting fresh)", err)
	}
	return m
}

func (m *Manager) State() *State { return m.state }

// Persistent reports whether saves reach disk.
func (m *Manager) Persistent() bool { return m.gdataManager != nil }

func (m *Manager) Load() error {
	m.state = &State{}
	if m.gdataManager == nil || !m.gdataManager.ObjectPropExists(sessionObject, stateProperty) {
		return nil
	}
	data, err := m.gdataManager.LoadObjectProp(sessionObject, stateProperty)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	var loaded State
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("unmarshal session: %w", err)
	}
	m.state = &loaded
	log.Printf("[Session] restored (last preset %q)", loaded.LastPresetPath)
	return nil
}

func (m *Manager) Save() error {
	if m.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(m.state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := m.gdataManager.SaveObjectProp(sessionObject, stateProperty, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SaveAutosave stores p in the preset file format.
func (m *Manager) SaveAutosave(p *preset.ParameterSet) error {
	if m.gdataManager == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := preset.Encode(&buf, p); err != nil {
		return fmt.Errorf("encode autosave: %w", err)
	}
	if err := m.gdataManager.SaveObjectProp(sessionObject, autosaveProp, buf.Bytes()); err != nil {
		return fmt.Errorf("save autosave: %w", err)
	}
	log.Printf("[Session] autosaved preset")
	return nil
}

// LoadAutosave returns the autosaved preset, or nil if there is none.
func (m *Manager) LoadAutosave() (*preset.ParameterSet, error) {
	if m.gdataManager == nil || !m.gdataManager.ObjectPropExists(sessionObject, autosaveProp) {
		return nil, nil
	}
	data, err := m.gdataManager.LoadObjectProp(sessionObject, autosaveProp)
	if err != nil {
		return nil, fmt.Errorf("load autosave: %w", err)
	}
	p, err := preset.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode autosave: %w", err)
	}
	return p, nil
}
