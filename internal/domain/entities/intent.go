package entities

// QueryType is the closed set of intents the assistant can route.
// Anything the classifier is unsure about collapses to QueryGeneral.
type QueryType string

const (
	QuerySearchPerson QueryType = "search_person"
	QueryCount        QueryType = "count"
	QueryList         QueryType = "list"
	QueryCreate       QueryType = "create"
	QueryFormAnalysis QueryType = "form_analysis"
	QueryPersonForms  QueryType = "person_forms"
	QueryGeneral      QueryType = "general"
)

// Valid reports whether the value belongs to the closed intent set
func (q QueryType) Valid() bool {
	switch q {
	case QuerySearchPerson, QueryCount, QueryList, QueryCreate,
		QueryFormAnalysis, QueryPersonForms, QueryGeneral:
		return true
	}
	return false
}

// ClassifiedIntent is the outcome of intent classification for one user input
type ClassifiedIntent struct {
	NeedsData       bool              `json:"needsData"`
	QueryType       QueryType         `json:"queryType"`
	ExtractedData   map[string]string `json:"extractedData"`
	NaturalResponse bool              `json:"naturalResponse"`
}

// DefaultIntent is the conservative classification used whenever the model
// is unavailable, returns garbage, or names an unknown intent
func DefaultIntent() ClassifiedIntent {
	return ClassifiedIntent{
		NeedsData:       false,
		QueryType:       QueryGeneral,
		ExtractedData:   map[string]string{},
		NaturalResponse: true,
	}
}

// Name returns the extracted person name, if any
func (c ClassifiedIntent) Name() string {
	if c.ExtractedData == nil {
		return ""
	}
	return c.ExtractedData["nome"]
}
