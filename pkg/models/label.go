package models

// Label is a tag attached to content.
type Label struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Prefix string `json:"prefix,omitempty"`
}

// LabelCreate is one entry of a v1 add-labels payload.
type LabelCreate struct {
	Prefix string `json:"prefix"`
	Name   string `json:"name"`
}
