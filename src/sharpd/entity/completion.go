package entity

// Candidate is one completion suggestion offered to the editor.
type Candidate struct {
	InsertionText string `json:"insertion_text"`
	MenuText      string `json:"menu_text"`
	DetailedInfo  string `json:"detailed_info"`
	Kind          string `json:"kind"`
}
