package judgment

// GradedDoc is one relevance label. Grade -1 marks a doc that was exported
// for annotation but not graded yet; the merger drops those.
type GradedDoc struct {
	DocID string `yaml:"doc_id"`
	Grade int    `yaml:"grade"`
}

type JudgmentFile struct {
	Strategy string          `yaml:"strategy"`
	Queries  []JudgmentEntry `yaml:"queries"`
}

type JudgmentEntry struct {
	QueryID string      `yaml:"query_id"`
	Docs    []GradedDoc `yaml:"docs"`
}
