// Package config handles settings and skill loading for the agent runtime.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings holds file-based configuration. Explicit options always take
// precedence over file values.
type Settings struct {
	Model        string   `yaml:"model,omitempty"`
	SystemPrompt string   `yaml:"system_prompt,omitempty"`
	MaxTurns     int      `yaml:"max_turns,omitempty"`
	MaxDepth     int      `yaml:"max_depth,omitempty"`
	Workspace    string   `yaml:"workspace,omitempty"`
	SkillDirs    []string `yaml:"skill_dirs,omitempty"`
	Tools        []string `yaml:"tools,omitempty"`
}

// LoadSettings reads a YAML settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return &s, nil
}

// Merge overlays src onto dst, field by field. Zero-valued src fields leave
// dst untouched.
func Merge(dst, src *Settings) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.SystemPrompt != "" {
		dst.SystemPrompt = src.SystemPrompt
	}
	if src.MaxTurns > 0 {
		dst.MaxTurns = src.MaxTurns
	}
	if src.MaxDepth > 0 {
		dst.MaxDepth = src.MaxDepth
	}
	if src.Workspace != "" {
		dst.Workspace = src.Workspace
	}
	if len(src.SkillDirs) > 0 {
		dst.SkillDirs = src.SkillDirs
	}
	if len(src.Tools) > 0 {
		dst.Tools = src.Tools
	}
}
