// Package catalog serves the static stage templates compiled into the
// binary.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"projectdesk/internal/model"
)

//go:embed stages.yaml
var stagesYAML []byte

type document struct {
	Stages []model.StageTemplate `yaml:"stages"`
}

// Parse decodes a stage catalog and rejects entries without a title.
func Parse(b []byte) ([]model.StageTemplate, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse stage catalog: %w", err)
	}
	if len(doc.Stages) == 0 {
		return nil, errors.New("stage catalog is empty")
	}
	for i, s := range doc.Stages {
		if s.Title == "" {
			return nil, fmt.Errorf("stage catalog entry %d has no title", i)
		}
	}
	return doc.Stages, nil
}

var loadStages = sync.OnceValues(func() ([]model.StageTemplate, error) {
	return Parse(stagesYAML)
})

// StageTemplates returns a copy of the embedded catalog.
func StageTemplates() ([]model.StageTemplate, error) {
	stages, err := loadStages()
	if err != nil {
		return nil, err
	}
	return append([]model.StageTemplate(nil), stages...), nil
}
