package searchschemes

type Input struct {
	Query      string     `json:"query,omitempty"`
	Category   string     `json:"category,omitempty"`
	State      string     `json:"state,omitempty"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

// SchemeDocument is one scheme as stored in the scheme index.
type SchemeDocument struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Benefits            string  `json:"benefits"`
	EligibilityCriteria string  `json:"eligibilityCriteria"`
	Category            string  `json:"category"`
	State               string  `json:"state,omitempty"`
	BaseSubsidyAmount   int64   `json:"base_subsidy_amount,omitempty"`
	ApplicationLink     string  `json:"applicationGuideLink,omitempty"`
	Score               float64 `json:"score"`
}

type Output struct {
	Schemes   []SchemeDocument `json:"schemes"`
	TotalHits int64            `json:"totalHits"`
	MaxScore  float64          `json:"maxScore"`
	Took      int64            `json:"took"` // milliseconds
}
