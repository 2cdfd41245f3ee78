package domain

// Record holds the structured answers collected so far: section -> field -> value.
// Later writes to the same key replace earlier ones.
type Record map[SectionID]map[string]string

// NewRecord creates an empty record
func NewRecord() Record {
	return make(Record)
}

// Set stores value under (section, field)
func (r Record) Set(section SectionID, field, value string) {
	fields, ok := r[section]
	if !ok {
		fields = make(map[string]string)
		r[section] = fields
	}
	fields[field] = value
}

// Get returns the value stored under (section, field)
func (r Record) Get(section SectionID, field string) (string, bool) {
	fields, ok := r[section]
	if !ok {
		return "", false
	}
	v, ok := fields[field]
	return v, ok
}

// Apply writes a validated extraction into the record
func (r Record) Apply(req ExtractionRequest) {
	r.Set(req.Section, req.Field, req.Value)
}

// Clone returns a deep copy safe to hand out to callers
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for section, fields := range r {
		cp := make(map[string]string, len(fields))
		for k, v := range fields {
			cp[k] = v
		}
		out[section] = cp
	}
	return out
}

// FieldCount returns the number of recorded fields across all sections
func (r Record) FieldCount() int {
	n := 0
	for _, fields := range r {
		n += len(fields)
	}
	return n
}
