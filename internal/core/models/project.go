package models

import "errors"

// Project is a codebase the backend knows about. Name doubles as the remote key.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"` // Filesystem path on the backend host, opaque here
}

// Validate checks if the project has required fields
func (p *Project) Validate() error {
	if p.Name == "" {
		return errors.New("project name is required")
	}
	return nil
}

// ProjectListing is the body of GET /projects
type ProjectListing struct {
	ActiveProject string    `json:"active_project"`
	Projects      []Project `json:"projects"`
}

// Assistant is a backend-hosted assistant a conversation can be bound to
type Assistant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Model        string `json:"model"`
	Instructions string `json:"instructions"`
}

// Validate checks if the assistant has required fields
func (a *Assistant) Validate() error {
	if a.Name == "" {
		return errors.New("assistant name is required")
	}
	return nil
}
