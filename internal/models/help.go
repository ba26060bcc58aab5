package models

// HelpTarget points the help panel at a page of the static help content and
// an anchor within it. Recomputed on every navigation, never persisted.
type HelpTarget struct {
	PageKey   string `json:"pageKey"`
	SectionId string `json:"sectionId"`
}
