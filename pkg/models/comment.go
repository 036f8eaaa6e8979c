package models

import (
	"strings"
	"time"
)

// Comment is a page comment as returned by the v1 content API.
type Comment struct {
	ID         string          `json:"id"`
	Type       string          `json:"type,omitempty"`
	Status     string          `json:"status,omitempty"`
	Title      string          `json:"title,omitempty"`
	History    *ContentHistory `json:"history,omitempty"`
	Extensions map[string]any  `json:"extensions,omitempty"`
	Ancestors  []ContentRef    `json:"ancestors,omitempty"`
	Links      Links           `json:"_links,omitempty"`
}

// ContentHistory is the history expansion of v1 content.
type ContentHistory struct {
	CreatedDate string `json:"createdDate,omitempty"`
	CreatedBy   *User  `json:"createdBy,omitempty"`
}

// User is the author block of v1 content.
type User struct {
	AccountID   string `json:"accountId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// ContentRef points at another piece of content.
type ContentRef struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
}

// Location returns "footer", "inline" or "resolved". Older sites nest the
// value one level deeper.
func (c *Comment) Location() string {
	switch v := c.Extensions["location"].(type) {
	case string:
		return v
	case map[string]any:
		s, _ := v["value"].(string)
		return s
	}
	return ""
}

// ParentCommentID returns the id of the comment this one replies to, or "".
func (c *Comment) ParentCommentID() string {
	var parent string
	for _, a := range c.Ancestors {
		if strings.EqualFold(a.Type, "comment") {
			parent = a.ID
		}
	}
	return parent
}

// Author returns the display name of the creator.
func (c *Comment) Author() string {
	if c.History == nil || c.History.CreatedBy == nil {
		return ""
	}
	return c.History.CreatedBy.DisplayName
}

// Created parses the creation date.
func (c *Comment) Created() (time.Time, error) {
	if c.History == nil {
		return time.Time{}, nil
	}
	return parseTime(c.History.CreatedDate)
}

// CommentCreate is the payload to add a comment to a page.
type CommentCreate struct {
	Type       string         `json:"type"`
	Container  ContentRef     `json:"container"`
	Body       StorageBody    `json:"body"`
	Ancestors  []ContentRef   `json:"ancestors,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// StorageBody wraps a storage-format value for v1 write payloads.
type StorageBody struct {
	Storage BodyValue `json:"storage"`
}
