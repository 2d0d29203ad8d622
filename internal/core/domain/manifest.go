package domain

// Constraint is a single version constraint on a requirement,
// e.g. Op "==" Version "2.3.3".
type Constraint struct {
	Op      string `json:"op"`
	Version string `json:"version"`
}

// Requirement is one dependency declared in a requirements manifest.
type Requirement struct {
	// Name is the normalized distribution name: lowercased, with runs
	// of "-", "_" and "." collapsed to a single "-".
	Name        string       `json:"name"`
	Extras      []string     `json:"extras,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty"`
	// Marker holds the environment marker after ";", if any, verbatim.
	Marker string `json:"marker,omitempty"`
	// Raw is the manifest line the requirement was parsed from.
	Raw string `json:"raw"`
}

// Manifest is a parsed requirements file.
type Manifest struct {
	Path         string        `json:"path"`
	Requirements []Requirement `json:"requirements"`
	// Skipped records lines the parser intentionally ignored:
	// comments, blanks and installer option lines such as "--index-url".
	Skipped []string `json:"skipped,omitempty"`
}

// Has reports whether the manifest declares the given package,
// matching on the normalized name.
func (m *Manifest) Has(name string) bool {
	for _, r := range m.Requirements {
		if r.Name == name {
			return true
		}
	}
	return false
}
