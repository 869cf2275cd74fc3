package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Skill is a loaded skill file: a markdown body with optional YAML
// frontmatter carrying a name and a short description.
type Skill struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Content     string `yaml:"-"`
}

// LoadSkills reads all .md files from the given directories. Missing
// directories are skipped; skills are always optional.
func LoadSkills(dirs ...string) ([]Skill, error) {
	var skills []Skill

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}
			skill := parseSkill(string(data))
			if skill.Name == "" {
				skill.Name = strings.TrimSuffix(entry.Name(), ".md")
			}
			skills = append(skills, skill)
		}
	}

	return skills, nil
}

// parseSkill splits optional YAML frontmatter (delimited by "---" lines) from
// the markdown body. Files without frontmatter are returned whole.
func parseSkill(raw string) Skill {
	var skill Skill

	if !strings.HasPrefix(raw, "---\n") {
		skill.Content = raw
		return skill
	}

	rest := raw[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		skill.Content = raw
		return skill
	}

	front := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")

	if err := yaml.Unmarshal([]byte(front), &skill); err != nil {
		skill.Content = raw
		return skill
	}
	skill.Content = body
	return skill
}

// FormatSkillsPrompt formats loaded skills into a block suitable for
// prepending to a system prompt.
func FormatSkillsPrompt(skills []Skill) string {
	if len(skills) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("# Available Skills\n\n")

	for _, skill := range skills {
		sb.WriteString("## ")
		sb.WriteString(skill.Name)
		sb.WriteString("\n\n")
		if skill.Description != "" {
			sb.WriteString(skill.Description)
			sb.WriteString("\n\n")
		}
		sb.WriteString(skill.Content)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
