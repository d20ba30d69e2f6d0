package models

// CriterionKind classifies a criteria code block as a pattern that should or
// should not appear in generated code.
type CriterionKind string

const (
	KindCorrect   CriterionKind = "correct"
	KindIncorrect CriterionKind = "incorrect"
)

// CriterionPattern is one classified code block from a skill's
// acceptance-criteria document. Text is opaque: it is matched literally
// against generated code, never compiled or interpreted.
type CriterionPattern struct {
	Text    string        `json:"text"`
	Kind    CriterionKind `json:"kind"`
	Section string        `json:"section"`
}
