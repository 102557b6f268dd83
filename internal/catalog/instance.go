package catalog

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/campus-allocator/internal/models"
)

// Instance is a self contained problem file. Any section may be omitted.
type Instance struct {
	Courses      []models.Course            `yaml:"courses"`
	Applications []models.CourseApplication `yaml:"applications"`
	Prior        map[string][]string        `yaml:"prior"`
	Venues       []models.Venue             `yaml:"venues"`
	Activities   []models.ClubActivity      `yaml:"activities"`
	Books        []models.Book              `yaml:"books"`
}

// ParseInstance decodes a YAML instance, rejecting unknown keys.
func ParseInstance(data []byte) (*Instance, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("instance: payload is empty")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var inst Instance
	if err := dec.Decode(&inst); err != nil {
		return nil, fmt.Errorf("instance: decode: %w", err)
	}
	return &inst, nil
}

// LoadInstance reads and decodes a YAML instance file.
func LoadInstance(path string) (*Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("instance: read %s: %w", path, err)
	}
	inst, err := ParseInstance(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}
