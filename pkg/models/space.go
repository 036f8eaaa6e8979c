package models

// Space is a top level container of pages.
type Space struct {
	ID         string `json:"id"`
	Key        string `json:"key"`
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	Status     string `json:"status,omitempty"`
	HomepageID string `json:"homepageId,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	Links      Links  `json:"_links,omitempty"`
}

// IsPersonal reports whether the space belongs to a single user. Personal
// space keys start with "~" followed by an opaque account id.
func (s *Space) IsPersonal() bool {
	return s.Type == "personal" || (len(s.Key) > 0 && s.Key[0] == '~')
}

// DisplayKey returns the key, or the name for personal spaces whose keys are
// not meaningful to people.
func (s *Space) DisplayKey() string {
	if len(s.Key) > 0 && s.Key[0] == '~' && s.Name != "" {
		return s.Name
	}
	if s.Key == "" {
		return s.ID
	}
	return s.Key
}

// WebURL returns the browser URL for the space.
func (s *Space) WebURL(siteURL string) string {
	return webURL(siteURL, s.Links.WebUI)
}

// SpaceCreate is the v1 payload to create a space.
type SpaceCreate struct {
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	Description *SpaceDescription `json:"description,omitempty"`
}

// SpaceDescription holds the plain text description of a new space.
type SpaceDescription struct {
	Plain BodyValue `json:"plain"`
}
