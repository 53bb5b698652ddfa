package handlers

import (
	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
)

// participantPayload accepts a participant under either the English API keys
// or the Korean roster column names used by the operator page.
type participantPayload struct {
	LicenseNumber   string `json:"license_number"`
	Name            string `json:"name"`
	Affiliation     string `json:"affiliation"`
	LicenseNumberKo string `json:"면허번호"`
	NameKo          string `json:"이름"`
	AffiliationKo   string `json:"소속기관"`
}

func (p participantPayload) participant() models.Participant {
	return models.Participant{
		LicenseNumber: firstNonEmpty(p.LicenseNumber, p.LicenseNumberKo),
		Name:          firstNonEmpty(p.Name, p.NameKo),
		Affiliation:   firstNonEmpty(p.Affiliation, p.AffiliationKo),
	}
}

// winnerPayload is a participantPayload tagged with its gift
type winnerPayload struct {
	participantPayload
	Gift   string `json:"gift"`
	GiftKo string `json:"경품"`
}

func (w winnerPayload) winner() models.Winner {
	return models.Winner{
		Participant: w.participant(),
		Gift:        firstNonEmpty(w.Gift, w.GiftKo),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
