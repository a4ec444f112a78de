// Package templateseed loads the default per-category milestone checklists
// shipped with the service. Seeds apply only when the templates table is
// empty; after that staff edits are authoritative.
package templateseed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"irs-portal/internal/domain"
)

type seedMilestone struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	DaysOffset  int    `yaml:"days_offset"`
}

type seedFile struct {
	Categories map[string][]seedMilestone `yaml:"categories"`
}

func Load(path string) (map[domain.ServiceCategory][]domain.TemplateMilestoneInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	seeds := make(map[domain.ServiceCategory][]domain.TemplateMilestoneInput, len(file.Categories))
	for name, milestones := range file.Categories {
		category := domain.ServiceCategory(name)
		if !category.IsValid() {
			return nil, fmt.Errorf("unknown category %q in %s", name, path)
		}

		inputs := make([]domain.TemplateMilestoneInput, 0, len(milestones))
		for _, m := range milestones {
			if m.Name == "" {
				return nil, fmt.Errorf("category %q has a milestone with no name", name)
			}
			input := domain.TemplateMilestoneInput{
				Name:       m.Name,
				DaysOffset: m.DaysOffset,
			}
			if m.Description != "" {
				desc := m.Description
				input.Description = &desc
			}
			inputs = append(inputs, input)
		}
		seeds[category] = inputs
	}
	return seeds, nil
}
