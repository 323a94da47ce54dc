package reconcile

// Result is the reconciliation output for a single entity.
type Result struct {
	// ID is the entity key shared by both sources.
	ID string `json:"id"`

	// Name is the display name of the entity.
	Name string `json:"name"`

	// DBPresent indicates whether the entity exists in the database.
	DBPresent bool `json:"db_present"`

	// DocumentPresent indicates whether the entity exists in the document.
	DocumentPresent bool `json:"document_present"`

	// Mismatch describes field differences, e.g. "abbr[Red]: doc=RD db=R".
	Mismatch []string `json:"mismatch"`
}

// InSync reports whether both sources hold the entity with equal fields.
func (r Result) InSync() bool {
	return r.DBPresent && r.DocumentPresent && len(r.Mismatch) == 0
}

// Summary provides aggregate counts for a report.
type Summary struct {
	TotalItems      int `json:"total_items"`
	MissingDocument int `json:"missing_document"`
	MissingDB       int `json:"missing_db"`
	Mismatches      int `json:"mismatches"`
}

// Report is the reconciliation of one adapter.
type Report struct {
	Adapter string   `json:"adapter"`
	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
}

// InSync reports whether no entity differs between the sources.
func (r *Report) InSync() bool {
	return r.Summary.MissingDocument == 0 && r.Summary.MissingDB == 0 && r.Summary.Mismatches == 0
}

// Issues returns only the results that are not in sync.
func (r *Report) Issues() []Result {
	issues := []Result{}
	for _, res := range r.Results {
		if !res.InSync() {
			issues = append(issues, res)
		}
	}
	return issues
}

// Entity is an item of either source. Adapters define the concrete type.
type Entity any
