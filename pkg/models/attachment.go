package models

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Attachment is a file attached to a page.
type Attachment struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Status       string   `json:"status,omitempty"`
	MediaType    string   `json:"mediaType,omitempty"`
	FileSize     int64    `json:"fileSize,omitempty"`
	Comment      string   `json:"comment,omitempty"`
	PageID       string   `json:"pageId,omitempty"`
	FileID       string   `json:"fileId,omitempty"`
	DownloadLink string   `json:"downloadLink,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
	Version      *Version `json:"version,omitempty"`
	Links        Links    `json:"_links,omitempty"`
}

// DownloadPath returns the relative download link, preferring downloadLink
// over _links.download.
func (a *Attachment) DownloadPath() string {
	if a.DownloadLink != "" {
		return a.DownloadLink
	}
	return a.Links.Download
}

// HumanSize renders FileSize for people, e.g. "1.2 MB".
func (a *Attachment) HumanSize() string {
	if a.FileSize <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(a.FileSize))
}

// Created parses CreatedAt.
func (a *Attachment) Created() (time.Time, error) {
	return parseTime(a.CreatedAt)
}

// UploadResult is one entry of an upload response.
type UploadResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Links Links  `json:"_links,omitempty"`
}
