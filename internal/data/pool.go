package data

import (
	"fmt"
	"os"
	"sort"

	"github.com/coremud/engine/internal/core/ecs"
	"gopkg.in/yaml.v3"
)

// Profile defaults for fields a pool_list.yaml entry leaves out.
const (
	DefaultInitialSize     = 10
	DefaultResizable       = true
	DefaultResizeIncrement = 10
)

// PoolProfile describes how the pool for one component type is sized.
type PoolProfile struct {
	Name            string `yaml:"name"`
	InitialSize     int    `yaml:"initial_size"`
	Resizable       bool   `yaml:"resizable"`
	ResizeIncrement int    `yaml:"resize_increment"`
	Note            string `yaml:"note"`
}

// DefaultPoolProfile is the profile used for components with no entry.
func DefaultPoolProfile(name string) PoolProfile {
	return PoolProfile{
		Name:            name,
		InitialSize:     DefaultInitialSize,
		Resizable:       DefaultResizable,
		ResizeIncrement: DefaultResizeIncrement,
	}
}

// PoolConfig converts the profile into the pool's sizing policy.
func (p *PoolProfile) PoolConfig() ecs.PoolConfig {
	return ecs.PoolConfig{
		InitialSize:     p.InitialSize,
		Resizable:       p.Resizable,
		ResizeIncrement: p.ResizeIncrement,
	}
}

// rawPoolProfile uses pointers so missing keys can be told apart from
// explicit zero values.
type rawPoolProfile struct {
	Name            string `yaml:"name"`
	InitialSize     *int   `yaml:"initial_size"`
	Resizable       *bool  `yaml:"resizable"`
	ResizeIncrement *int   `yaml:"resize_increment"`
	Note            string `yaml:"note"`
}

// PoolTable provides lookup of pool profiles by component name.
type PoolTable struct {
	profiles map[string]*PoolProfile
	defaults PoolProfile
}

// TableOption configures how a pool list is read.
type TableOption func(*PoolTable)

// WithProfileDefaults replaces the built-in values used for fields an entry
// leaves out and for components with no entry at all.
func WithProfileDefaults(initialSize int, resizable bool, resizeIncrement int) TableOption {
	return func(t *PoolTable) {
		t.defaults.InitialSize = initialSize
		t.defaults.Resizable = resizable
		t.defaults.ResizeIncrement = resizeIncrement
	}
}

// LoadPoolTable loads pool_list.yaml.
func LoadPoolTable(path string, opts ...TableOption) (*PoolTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool list: %w", err)
	}
	return ParsePoolTable(raw, opts...)
}

// ParsePoolTable parses the pool_list.yaml format and validates every entry.
func ParsePoolTable(raw []byte, opts ...TableOption) (*PoolTable, error) {
	var entries []rawPoolProfile
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse pool list: %w", err)
	}
	t := &PoolTable{
		profiles: make(map[string]*PoolProfile, len(entries)),
		defaults: DefaultPoolProfile(""),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.defaults.PoolConfig().Validate(); err != nil {
		return nil, fmt.Errorf("pool list defaults: %w", err)
	}
	for i := range entries {
		e := &entries[i]
		if e.Name == "" {
			return nil, fmt.Errorf("pool list entry %d: missing name", i)
		}
		if _, dup := t.profiles[e.Name]; dup {
			return nil, fmt.Errorf("pool list entry %d: duplicate name %q", i, e.Name)
		}
		p := t.defaults
		p.Name = e.Name
		p.Note = e.Note
		if e.InitialSize != nil {
			p.InitialSize = *e.InitialSize
		}
		if e.Resizable != nil {
			p.Resizable = *e.Resizable
		}
		if e.ResizeIncrement != nil {
			p.ResizeIncrement = *e.ResizeIncrement
		}
		if !p.Resizable {
			p.ResizeIncrement = 0
		}
		if err := p.PoolConfig().Validate(); err != nil {
			return nil, fmt.Errorf("pool list %q: %w", e.Name, err)
		}
		t.profiles[e.Name] = &p
	}
	return t, nil
}

// Get returns the named profile, or nil if none.
func (t *PoolTable) Get(name string) *PoolProfile {
	if t == nil {
		return nil
	}
	return t.profiles[name]
}

// Profile returns the named profile, falling back to the table defaults
// when there is no entry for name.
func (t *PoolTable) Profile(name string) PoolProfile {
	if p := t.Get(name); p != nil {
		return *p
	}
	p := DefaultPoolProfile(name)
	if t != nil {
		p = t.defaults
		p.Name = name
	}
	if !p.Resizable {
		p.ResizeIncrement = 0
	}
	return p
}

// Count returns the total number of profiles loaded.
func (t *PoolTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.profiles)
}

// Names returns the profile names in sorted order.
func (t *PoolTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.profiles))
	for n := range t.profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
