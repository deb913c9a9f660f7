package interchange

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlDocument is the YAML rendering of a Model, grounded on cue-lang/cue's
// internal/encoding/yaml package's plain-struct-with-tags approach rather
// than a hand-rolled node builder.
type yamlDocument struct {
	Elements []yamlElement `yaml:"elements"`
}

type yamlElement struct {
	ElementID     string   `yaml:"elementId"`
	QualifiedName string   `yaml:"qualifiedName"`
	Name          string   `yaml:"name"`
	ShortName     string   `yaml:"shortName,omitempty"`
	Kind          string   `yaml:"kind"`
	Supertypes    []string `yaml:"supertypes,omitempty"`
	Doc           string   `yaml:"doc,omitempty"`
	IsPublic      bool     `yaml:"isPublic"`
	IsAbstract    bool     `yaml:"isAbstract"`
	Metadata      []string `yaml:"metadata,omitempty"`
}

// MarshalYAML renders model as YAML.
func MarshalYAML(model Model) ([]byte, error) {
	doc := yamlDocument{Elements: make([]yamlElement, len(model.Elements))}
	for i, el := range model.Elements {
		doc.Elements[i] = yamlElement{
			ElementID: el.ElementID, QualifiedName: el.QualifiedName, Name: el.Name,
			ShortName: el.ShortName, Kind: el.Kind, Supertypes: el.Supertypes, Doc: el.Doc,
			IsPublic: el.IsPublic, IsAbstract: el.IsAbstract, Metadata: el.Metadata,
		}
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("interchange: marshal YAML: %w", err)
	}
	return out, nil
}

// UnmarshalYAML parses data into a Model.
func UnmarshalYAML(data []byte) (Model, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Model{}, fmt.Errorf("interchange: unmarshal YAML: %w", err)
	}
	model := Model{Elements: make([]Element, len(doc.Elements))}
	for i, el := range doc.Elements {
		model.Elements[i] = Element{
			ElementID: el.ElementID, QualifiedName: el.QualifiedName, Name: el.Name,
			ShortName: el.ShortName, Kind: el.Kind, Supertypes: el.Supertypes, Doc: el.Doc,
			IsPublic: el.IsPublic, IsAbstract: el.IsAbstract, Metadata: el.Metadata,
		}
	}
	return model, nil
}
