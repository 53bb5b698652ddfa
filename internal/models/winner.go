package models

// Winner is a participant tagged with the gift they were drawn for
type Winner struct {
	Participant `bson:",inline"`
	Gift        string `bson:"gift" json:"gift" binding:"required"`
}

// Matches reports whether two winner records agree on all four fields
func (w Winner) Matches(other Winner) bool {
	return w.Participant.Key() == other.Participant.Key() && w.Gift == other.Gift
}
