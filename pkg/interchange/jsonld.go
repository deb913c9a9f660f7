package interchange

import (
	"encoding/json"
	"fmt"
)

// jsonldDocument wraps a Model under the JSON-LD @context/@graph convention:
// each element carries @id and @type, the rest of its fields as plain JSON
// properties. This is the application-level interpretation of JSON-LD used
// across model-interchange tooling, not a claim of conformance to any
// particular ontology's @context vocabulary.
type jsonldDocument struct {
	Context map[string]string `json:"@context"`
	Graph   []jsonldElement   `json:"@graph"`
}

type jsonldElement struct {
	ID            string   `json:"@id"`
	Type          string   `json:"@type"`
	QualifiedName string   `json:"qualifiedName"`
	Name          string   `json:"name"`
	ShortName     string   `json:"shortName,omitempty"`
	Supertypes    []string `json:"supertypes,omitempty"`
	Doc           string   `json:"doc,omitempty"`
	IsPublic      bool     `json:"isPublic"`
	IsAbstract    bool     `json:"isAbstract"`
	Metadata      []string `json:"metadata,omitempty"`
}

var jsonldContext = map[string]string{
	"qualifiedName": "https://kermlsem.dev/ns#qualifiedName",
	"name":          "https://kermlsem.dev/ns#name",
	"shortName":     "https://kermlsem.dev/ns#shortName",
	"supertypes":    "https://kermlsem.dev/ns#supertypes",
	"doc":           "https://kermlsem.dev/ns#doc",
	"isPublic":      "https://kermlsem.dev/ns#isPublic",
	"isAbstract":    "https://kermlsem.dev/ns#isAbstract",
	"metadata":      "https://kermlsem.dev/ns#metadata",
}

// MarshalJSONLD renders model as a JSON-LD document.
func MarshalJSONLD(model Model) ([]byte, error) {
	doc := jsonldDocument{Context: jsonldContext, Graph: make([]jsonldElement, len(model.Elements))}
	for i, el := range model.Elements {
		doc.Graph[i] = jsonldElement{
			ID: el.ElementID, Type: el.Kind, QualifiedName: el.QualifiedName, Name: el.Name,
			ShortName: el.ShortName, Supertypes: el.Supertypes, Doc: el.Doc,
			IsPublic: el.IsPublic, IsAbstract: el.IsAbstract, Metadata: el.Metadata,
		}
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("interchange: marshal JSON-LD: %w", err)
	}
	return out, nil
}

// UnmarshalJSONLD parses data into a Model.
func UnmarshalJSONLD(data []byte) (Model, error) {
	var doc jsonldDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Model{}, fmt.Errorf("interchange: unmarshal JSON-LD: %w", err)
	}
	model := Model{Elements: make([]Element, len(doc.Graph))}
	for i, el := range doc.Graph {
		model.Elements[i] = Element{
			ElementID: el.ID, Kind: el.Type, QualifiedName: el.QualifiedName, Name: el.Name,
			ShortName: el.ShortName, Supertypes: el.Supertypes, Doc: el.Doc,
			IsPublic: el.IsPublic, IsAbstract: el.IsAbstract, Metadata: el.Metadata,
		}
	}
	return model, nil
}
