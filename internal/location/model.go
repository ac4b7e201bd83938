package location

import (
	"encoding/json"

	"github.com/google/uuid"

	"populationservice/internal/api"
)

// Location is the managed resource: a named site with resident counts and a
// derived total.
type Location struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MaleResidents   int       `json:"maleResidents"`
	FemaleResidents int       `json:"femaleResidents"`
	TotalResidents  int       `json:"totalResidents"`
}

// Fields flattens the record into envelope data members, the shape used by
// create and update responses.
func (l *Location) Fields() api.Fields {
	return api.Fields{
		"id":              l.ID,
		"name":            l.Name,
		"maleResidents":   l.MaleResidents,
		"femaleResidents": l.FemaleResidents,
		"totalResidents":  l.TotalResidents,
	}
}

// Payload is the raw create/update request body. The resident counts stay as
// raw JSON so the validator can distinguish absent, empty, string-typed and
// numeric values. There is intentionally no totalResidents member: the total
// is always derived server-side and client-submitted values are dropped at
// decode.
type Payload struct {
	Name            json.RawMessage `json:"name"`
	MaleResidents   json.RawMessage `json:"maleResidents"`
	FemaleResidents json.RawMessage `json:"femaleResidents"`
}

// Candidate is a validated, sanitized payload ready for storage.
type Candidate struct {
	Name            string
	MaleResidents   int
	FemaleResidents int
}

// totalResidents derives the stored total. Callers guarantee the counts have
// already passed validation.
func totalResidents(male, female int) int {
	return male + female
}
