package services

import (
	"encoding/json"

	"github.com/collabhub/engine/internal/models"
)

type parsedProfile struct {
	Profile struct {
		Name         string `json:"name"`
		Year         string `json:"year"`
		Department   string `json:"department"`
		Institution  string `json:"institution"`
		Availability string `json:"availability"`
	} `json:"profile"`
}

// fillFromParsed copies parser-extracted profile fields into p for any field
// the user did not declare. Decode errors are ignored: the raw JSON is kept
// either way.
func fillFromParsed(p *models.Profile, raw json.RawMessage) {
	var pp parsedProfile
	if err := json.Unmarshal(raw, &pp); err != nil {
		return
	}
	if p.Name == "" {
		p.Name = pp.Profile.Name
	}
	if p.Year == "" {
		p.Year = pp.Profile.Year
	}
	if p.Department == "" {
		p.Department = pp.Profile.Department
	}
	if p.Institution == "" {
		p.Institution = pp.Profile.Institution
	}
	if p.Availability == "" {
		p.Availability = pp.Profile.Availability
	}
}
