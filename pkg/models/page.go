package models

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Page is a content page as returned by the v2 API.
type Page struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Status        string   `json:"status,omitempty"`
	SpaceID       string   `json:"spaceId,omitempty"`
	ParentID      string   `json:"parentId,omitempty"`
	ParentType    string   `json:"parentType,omitempty"`
	ChildPosition int      `json:"childPosition,omitempty"`
	AuthorID      string   `json:"authorId,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`
	Version       *Version `json:"version,omitempty"`
	Body          *Body    `json:"body,omitempty"`
	Links         Links    `json:"_links,omitempty"`
}

// Version is the version block of a page or attachment.
type Version struct {
	Number    int    `json:"number"`
	Message   string `json:"message,omitempty"`
	MinorEdit bool   `json:"minorEdit,omitempty"`
	AuthorID  string `json:"authorId,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Created parses CreatedAt.
func (v *Version) Created() (time.Time, error) {
	return parseTime(v.CreatedAt)
}

// Body holds the page body in whichever representations were requested.
type Body struct {
	Storage        *BodyValue `json:"storage,omitempty"`
	View           *BodyValue `json:"view,omitempty"`
	AtlasDocFormat *BodyValue `json:"atlas_doc_format,omitempty"`
}

// BodyValue is one representation of a page body.
type BodyValue struct {
	Representation string `json:"representation,omitempty"`
	Value          string `json:"value"`
}

// Links are the relative navigation links attached to most resources.
type Links struct {
	WebUI    string `json:"webui,omitempty"`
	TinyUI   string `json:"tinyui,omitempty"`
	EditUI   string `json:"editui,omitempty"`
	Download string `json:"download,omitempty"`
	Base     string `json:"base,omitempty"`
}

// BodyValue returns the body in the given representation, or "".
func (p *Page) BodyValue(representation string) string {
	if p.Body == nil {
		return ""
	}
	var v *BodyValue
	switch representation {
	case "storage":
		v = p.Body.Storage
	case "view":
		v = p.Body.View
	case "atlas_doc_format":
		v = p.Body.AtlasDocFormat
	}
	if v == nil {
		return ""
	}
	return v.Value
}

// VersionNumber returns the current version number, 0 if unknown.
func (p *Page) VersionNumber() int {
	if p.Version == nil {
		return 0
	}
	return p.Version.Number
}

// Created parses CreatedAt. The API has used several timestamp layouts over
// time so the format is detected.
func (p *Page) Created() (time.Time, error) {
	return parseTime(p.CreatedAt)
}

// WebURL returns the browser URL for the page.
func (p *Page) WebURL(siteURL string) string {
	return webURL(siteURL, p.Links.WebUI)
}

// PageCreate is the payload to create a page.
type PageCreate struct {
	SpaceID  string         `json:"spaceId"`
	Status   string         `json:"status"`
	Title    string         `json:"title"`
	ParentID string         `json:"parentId,omitempty"`
	Body     BodyRepresents `json:"body"`
}

// PageUpdate is the payload to replace a page. Version.Number must be the
// current version plus one.
type PageUpdate struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	Title    string         `json:"title"`
	SpaceID  string         `json:"spaceId,omitempty"`
	ParentID string         `json:"parentId,omitempty"`
	Body     BodyRepresents `json:"body"`
	Version  Version        `json:"version"`
}

// BodyRepresents is a body in a write payload.
type BodyRepresents struct {
	Representation string `json:"representation"`
	Value          string `json:"value"`
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

func webURL(siteURL, webui string) string {
	if webui == "" {
		return ""
	}
	if strings.HasPrefix(webui, "http://") || strings.HasPrefix(webui, "https://") {
		return webui
	}
	return strings.TrimRight(siteURL, "/") + "/" + strings.TrimLeft(webui, "/")
}
