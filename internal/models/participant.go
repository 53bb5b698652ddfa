package models

import "unicode/utf8"

// Field length limits for a roster record
const (
	MaxLicenseNumberLength = 64
	MaxNameLength          = 64
	MaxAffiliationLength   = 128
)

// Participant represents one eligible entry of the uploaded roster
type Participant struct {
	LicenseNumber string `bson:"licenseNumber" json:"license_number" binding:"required,max=64"`
	Name          string `bson:"name" json:"name" binding:"required,max=64"`
	Affiliation   string `bson:"affiliation" json:"affiliation" binding:"max=128"`
}

// ParticipantKey is the identity of a participant (license number, name, affiliation)
type ParticipantKey struct {
	LicenseNumber string
	Name          string
	Affiliation   string
}

// Key returns the identity triple used for equality, exclusion and dedup
func (p Participant) Key() ParticipantKey {
	return ParticipantKey{
		LicenseNumber: p.LicenseNumber,
		Name:          p.Name,
		Affiliation:   p.Affiliation,
	}
}

// Valid reports whether the required fields are present and every field fits its limit
func (p Participant) Valid() bool {
	if p.LicenseNumber == "" || p.Name == "" {
		return false
	}
	return utf8.RuneCountInString(p.LicenseNumber) <= MaxLicenseNumberLength &&
		utf8.RuneCountInString(p.Name) <= MaxNameLength &&
		utf8.RuneCountInString(p.Affiliation) <= MaxAffiliationLength
}
