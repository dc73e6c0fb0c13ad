package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pkgcycle/pkg/model"
)

// Facts is the JSON document form of a model.
type Facts struct {
	Packages []PackageFact `json:"packages"`
	Classes  []ClassFact   `json:"classes"`
	Usages   []UsageFact   `json:"usages"`
}

// PackageFact declares a package location.
type PackageFact struct {
	Name     string          `json:"name"`
	Location *model.Location `json:"location,omitempty"`
}

// ClassFact declares a class.
type ClassFact struct {
	Package  string          `json:"package"`
	Name     string          `json:"name"`
	Abstract bool            `json:"abstract,omitempty"`
	Location *model.Location `json:"location,omitempty"`
}

// UsageFact records that From uses To.
type UsageFact struct {
	From model.Name `json:"from"`
	To   model.Name `json:"to"`
}

// FromModel converts m into facts, in model order.
func FromModel(m *model.Model[model.Location]) Facts {
	out := Facts{
		Packages: make([]PackageFact, 0),
		Classes:  make([]ClassFact, 0),
		Usages:   make([]UsageFact, 0),
	}
	for _, p := range m.Packages() {
		if loc, ok := p.External(); ok {
			out.Packages = append(out.Packages, PackageFact{Name: p.Name(), Location: &loc})
		}
		for _, c := range p.Classes() {
			cf := ClassFact{Package: p.Name(), Name: c.Name(), Abstract: c.IsAbstract()}
			if loc, ok := c.External(); ok {
				cf.Location = &loc
			}
			out.Classes = append(out.Classes, cf)
			for _, u := range c.Uses() {
				out.Usages = append(out.Usages, UsageFact{From: c.Key(), To: u.Key()})
			}
		}
	}
	return out
}

// WriteJSON encodes m as facts JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(m *model.Model[model.Location], w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromModel(m)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes m to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(m *model.Model[model.Location], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(m, f)
}
