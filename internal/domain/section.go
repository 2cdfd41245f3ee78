package domain

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/bytedance/sonic"
)

// SectionID identifies one clinical topic of the interview
type SectionID string

const (
	// SectionDemographics - name, age, gender, occupation
	SectionDemographics SectionID = "demographics"
	// SectionComplaint - presenting complaint and duration
	SectionComplaint SectionID = "complaint"
	// SectionHPCPain - history of presenting complaint (SOCRATES)
	SectionHPCPain SectionID = "hpc_pain"
	// SectionSystems - systems review
	SectionSystems SectionID = "systems"
	// SectionPMH - past medical history
	SectionPMH SectionID = "pmh"
	// SectionDrugs - medication and allergies
	SectionDrugs SectionID = "drugs"
	// SectionSocial - social history
	SectionSocial SectionID = "social"
)

// Section is one catalog entry
type Section struct {
	ID       SectionID
	Ordinal  int
	Guidance string
}

// DefaultBaseInstruction is the template every section instruction is rendered from.
// Available fields: .Section, .Guidance, .Record
const DefaultBaseInstruction = `You are a medical history-taking assistant conducting interviews in URDU (اردو).

CRITICAL LANGUAGE RULES:
1. Always respond in Urdu script (اردو رسم الخط) unless the patient uses Roman Urdu
2. Use simple, conversational Urdu and avoid complex vocabulary
3. Mix common English medical terms naturally (blood pressure, diabetes, X-ray)
4. Use the respectful آپ (aap) form
5. Accept mixed language and mirror the patient's style

TOOLS:
- Call record_info for every fact the patient states (section, field, value).
- Call mark_section_complete once the current section has been covered.

CURRENT SECTION: {{.Section}}
COLLECTED DATA SO FAR: {{.Record}}

{{.Guidance}}

Continue the interview naturally in Urdu.`

// DefaultSectionGuidance holds the per-section guidance of the default catalog
var DefaultSectionGuidance = map[SectionID]string{
	SectionDemographics: "اب میں آپ سے کچھ بنیادی معلومات لوں گا۔\nAsk: نام، عمر، جنس، پیشہ",
	SectionComplaint:    "آپ کو کیا تکلیف ہے؟ کب سے؟",
	SectionHPCPain: "Use SOCRATES in Urdu:\n" +
		"- کہاں درد ہے؟ (Site)\n" +
		"- کب شروع ہوا؟ (Onset)\n" +
		"- کیسا درد ہے؟ (Character)\n" +
		"- کہیں اور جاتا ہے؟ (Radiation)",
	SectionSystems: "Relevant system review in Urdu based on complaint",
	SectionPMH:     "پرانی بیماریاں: Sugar? Pressure? دل کی بیماری؟",
	SectionDrugs:   "کوئی دوائیں؟ Allergies?",
	SectionSocial:  "سگریٹ؟ رہائش? مدد کی ضرورت؟",
}

// DefaultSectionOrder is the clinical order of the default catalog
var DefaultSectionOrder = []SectionID{
	SectionDemographics,
	SectionComplaint,
	SectionHPCPain,
	SectionSystems,
	SectionPMH,
	SectionDrugs,
	SectionSocial,
}

// Catalog is a fixed, totally ordered list of sections.
// It is immutable after construction and safe to share between sessions.
type Catalog struct {
	sections []Section
	index    map[SectionID]int
	base     *template.Template
}

// SectionSpec describes a catalog entry before ordinals are assigned
type SectionSpec struct {
	ID       SectionID
	Guidance string
}

// NewCatalog builds a catalog in the given order. Identifiers must be non-empty and unique,
// which keeps the successor function injective.
func NewCatalog(baseInstruction string, specs []SectionSpec) (*Catalog, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: catalog needs at least one section", ErrInvalidCatalog)
	}
	if baseInstruction == "" {
		baseInstruction = DefaultBaseInstruction
	}
	tmpl, err := template.New("instruction").Parse(baseInstruction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		sections: make([]Section, 0, len(specs)),
		index:    make(map[SectionID]int, len(specs)),
		base:     tmpl,
	}
	for i, spec := range specs {
		if spec.ID == "" {
			return nil, fmt.Errorf("%w: section %d has no identifier", ErrInvalidCatalog, i)
		}
		if _, dup := c.index[spec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate section %q", ErrInvalidCatalog, spec.ID)
		}
		c.index[spec.ID] = i
		c.sections = append(c.sections, Section{ID: spec.ID, Ordinal: i, Guidance: spec.Guidance})
	}
	return c, nil
}

// DefaultCatalog returns the seven-section history-taking catalog
func DefaultCatalog() *Catalog {
	specs := make([]SectionSpec, len(DefaultSectionOrder))
	for i, id := range DefaultSectionOrder {
		specs[i] = SectionSpec{ID: id, Guidance: DefaultSectionGuidance[id]}
	}
	c, err := NewCatalog(DefaultBaseInstruction, specs)
	if err != nil {
		panic(err)
	}
	return c
}

// First returns the section every interview starts in
func (c *Catalog) First() SectionID {
	return c.sections[0].ID
}

// Next returns the successor of id. ok is false for the last section and for unknown ids.
func (c *Catalog) Next(id SectionID) (next SectionID, ok bool) {
	i, known := c.index[id]
	if !known || i+1 >= len(c.sections) {
		return "", false
	}
	return c.sections[i+1].ID, true
}

// Contains reports whether id is part of the catalog
func (c *Catalog) Contains(id SectionID) bool {
	_, ok := c.index[id]
	return ok
}

// Get returns the catalog entry for id
func (c *Catalog) Get(id SectionID) (Section, bool) {
	i, ok := c.index[id]
	if !ok {
		return Section{}, false
	}
	return c.sections[i], true
}

// Sections returns a copy of the catalog in order
func (c *Catalog) Sections() []Section {
	out := make([]Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// Len returns the number of sections
func (c *Catalog) Len() int {
	return len(c.sections)
}

// RenderInstruction interpolates the base template for a section with the current record
func (c *Catalog) RenderInstruction(id SectionID, record Record) (string, error) {
	section, ok := c.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: unknown section %q", ErrInvalidCatalog, id)
	}
	recordJSON, err := sonic.ConfigDefault.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render record: %w", err)
	}

	var buf bytes.Buffer
	err = c.base.Execute(&buf, struct {
		Section  SectionID
		Guidance string
		Record   string
	}{
		Section:  section.ID,
		Guidance: section.Guidance,
		Record:   string(recordJSON),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render instruction: %w", err)
	}
	return buf.String(), nil
}
