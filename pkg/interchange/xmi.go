package interchange

import (
	"encoding/xml"
	"fmt"
)

// xmiDocument mirrors a minimal XMI 2.x element container: one root
// wrapping a flat sequence of typed elements. Real XMI is more elaborate
// (package nesting, cross-reference hrefs); this is the smallest shape
// that round-trips this package's Model losslessly, not a claim of full
// XMI schema conformance.
type xmiDocument struct {
	XMLName  xml.Name     `xml:"XMI"`
	Elements []xmiElement `xml:"element"`
}

type xmiElement struct {
	XMLName       xml.Name `xml:"element"`
	ElementID     string   `xml:"id,attr"`
	QualifiedName string   `xml:"qualifiedName,attr"`
	Name          string   `xml:"name,attr"`
	ShortName     string   `xml:"shortName,attr,omitempty"`
	Kind          string   `xml:"kind,attr"`
	IsPublic      bool     `xml:"isPublic,attr"`
	IsAbstract    bool     `xml:"isAbstract,attr"`
	Supertypes    []string `xml:"supertype"`
	Metadata      []string `xml:"metadata"`
	Doc           string   `xml:"doc,omitempty"`
}

// MarshalXMI renders model as the xmiDocument shape.
func MarshalXMI(model Model) ([]byte, error) {
	doc := xmiDocument{Elements: make([]xmiElement, len(model.Elements))}
	for i, el := range model.Elements {
		doc.Elements[i] = xmiElement{
			ElementID: el.ElementID, QualifiedName: el.QualifiedName, Name: el.Name,
			ShortName: el.ShortName, Kind: el.Kind, IsPublic: el.IsPublic, IsAbstract: el.IsAbstract,
			Supertypes: el.Supertypes, Metadata: el.Metadata, Doc: el.Doc,
		}
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("interchange: marshal XMI: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// UnmarshalXMI parses data into a Model.
func UnmarshalXMI(data []byte) (Model, error) {
	var doc xmiDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Model{}, fmt.Errorf("interchange: unmarshal XMI: %w", err)
	}
	model := Model{Elements: make([]Element, len(doc.Elements))}
	for i, el := range doc.Elements {
		model.Elements[i] = Element{
			ElementID: el.ElementID, QualifiedName: el.QualifiedName, Name: el.Name,
			ShortName: el.ShortName, Kind: el.Kind, IsPublic: el.IsPublic, IsAbstract: el.IsAbstract,
			Supertypes: el.Supertypes, Metadata: el.Metadata, Doc: el.Doc,
		}
	}
	return model, nil
}
