package model

import "time"

// FAQ is a question and answer pair shown on the public site.
type FAQ struct {
	ID        string    `json:"_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntityID implements Entity.
func (f FAQ) EntityID() string { return f.ID }

// SearchFields implements Entity.
func (f FAQ) SearchFields() []string {
	return []string{f.Question, f.Answer}
}
