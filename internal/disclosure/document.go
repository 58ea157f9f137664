// Package disclosure decodes franchise disclosure report documents and
// extracts typed business facts from them.
package disclosure

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Report is a parsed disclosure document: an ordered list of titled sections.
type Report struct {
	Sections []Section
}

// Section is one titled block of a report. Raw keeps the original data
// payload so it can be echoed back verbatim.
type Section struct {
	Title string
	Data  SectionData
	Raw   json.RawMessage
}

// SectionData is the closed set of payload shapes a section can carry.
type SectionData interface {
	sectionData()
}

// Pair is one labelled value of a PairList. The label comes from "title",
// falling back to "key".
type Pair struct {
	Label string
	Value any
}

// PairList is an array of {title|key, value} entries.
type PairList []Pair

// RegionRow is one region of a region/year table.
type RegionRow struct {
	Region   string
	YearData map[string]map[string]any
}

// RegionTable is an array of {region, year_data} entries.
type RegionTable []RegionRow

// RowList is any other array of objects, e.g. yearly sales rows.
type RowList []map[string]any

// Object is a single flat object payload.
type Object map[string]any

// Empty marks a missing, null, scalar or unrecognised payload.
type Empty struct{}

func (PairList) sectionData()    {}
func (RegionTable) sectionData() {}
func (RowList) sectionData()     {}
func (Object) sectionData()      {}
func (Empty) sectionData()       {}

// ParseReport decodes a stored document column. It never fails: malformed
// input yields an empty report and malformed sections are skipped.
func ParseReport(raw []byte) Report {
	root, ok := decodeDocument(raw)
	if !ok {
		return Report{}
	}
	return reportFromValue(root)
}

// DecodeJSON returns the decoded document, or an empty object when the
// column is absent or unparsable.
func DecodeJSON(raw []byte) any {
	v, ok := decodeDocument(raw)
	if !ok || v == nil {
		return map[string]any{}
	}
	return v
}

func decodeDocument(raw []byte) (any, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}

	// Some rows were ingested as a JSON string holding the document.
	if s, ok := v.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return nil, false
		}
		v = inner
	}
	return v, true
}

func reportFromValue(v any) Report {
	obj, ok := v.(map[string]any)
	if !ok {
		return Report{}
	}
	list, ok := obj["sections"].([]any)
	if !ok {
		return Report{}
	}

	sections := make([]Section, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title, _ := m["title"].(string)
		raw, err := json.Marshal(m["data"])
		if err != nil {
			raw = json.RawMessage("null")
		}
		sections = append(sections, Section{
			Title: strings.TrimSpace(title),
			Data:  classify(m["data"]),
			Raw:   raw,
		})
	}
	return Report{Sections: sections}
}

func classify(v any) SectionData {
	switch data := v.(type) {
	case map[string]any:
		return Object(data)
	case []any:
		return classifyArray(data)
	default:
		return Empty{}
	}
}

func classifyArray(items []any) SectionData {
	objects := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			objects = append(objects, m)
		}
	}
	if len(objects) == 0 {
		return Empty{}
	}

	if isRegionTable(objects) {
		table := make(RegionTable, 0, len(objects))
		for _, m := range objects {
			region, _ := m["region"].(string)
			yd, ok := m["year_data"].(map[string]any)
			if !ok {
				continue
			}
			years := make(map[string]map[string]any, len(yd))
			for year, metrics := range yd {
				if mm, ok := metrics.(map[string]any); ok {
					years[year] = mm
				}
			}
			table = append(table, RegionRow{Region: region, YearData: years})
		}
		return table
	}

	if isPairList(objects) {
		pairs := make(PairList, 0, len(objects))
		for _, m := range objects {
			label, ok := pairLabel(m)
			if !ok {
				continue
			}
			pairs = append(pairs, Pair{Label: label, Value: m["value"]})
		}
		return pairs
	}

	return RowList(objects)
}

func isRegionTable(objects []map[string]any) bool {
	for _, m := range objects {
		if _, ok := m["year_data"].(map[string]any); ok {
			if _, ok := m["region"]; ok {
				return true
			}
		}
	}
	return false
}

func isPairList(objects []map[string]any) bool {
	for _, m := range objects {
		if _, ok := m["value"]; !ok {
			continue
		}
		if _, ok := pairLabel(m); ok {
			return true
		}
	}
	return false
}

func pairLabel(m map[string]any) (string, bool) {
	if s, ok := m["title"].(string); ok && s != "" {
		return s, true
	}
	if s, ok := m["key"].(string); ok && s != "" {
		return s, true
	}
	return "", false
}

// FindSection returns the first section whose title contains any of the
// given fragments.
func (r Report) FindSection(fragments ...string) (Section, bool) {
	for _, s := range r.Sections {
		for _, f := range fragments {
			if strings.Contains(s.Title, f) {
				return s, true
			}
		}
	}
	return Section{}, false
}

// Lookup returns the first section's match, across all pair-list sections,
// for one of labels. See PairList.Get.
func (r Report) Lookup(labels ...string) (any, bool) {
	for _, s := range r.Sections {
		pairs, ok := s.Data.(PairList)
		if !ok {
			continue
		}
		if v, ok := pairs.Get(labels...); ok {
			return v, true
		}
	}
	return nil, false
}

// Get returns the value of the last pair whose label equals one of labels,
// so a repeated label overrides earlier ones. Blank values are skipped.
func (p PairList) Get(labels ...string) (any, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		pair := p[i]
		for _, l := range labels {
			if pair.Label == l && !isBlank(pair.Value) {
				return pair.Value, true
			}
		}
	}
	return nil, false
}

// Get returns the first non-blank value stored under one of keys.
func (o Object) Get(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := o[k]; ok && !isBlank(v) {
			return v, true
		}
	}
	return nil, false
}

// isBlank is true for nil and whitespace-only strings. Zero and false are
// real values.
func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	}
	return false
}
