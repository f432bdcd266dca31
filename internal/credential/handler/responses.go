package handler

import (
	"time"

	"complio/internal/credential/expiry"
	"complio/internal/credential/models"
)

// recordResponse decorates a stored record with its derived expiry fields.
type recordResponse struct {
	*models.CredentialRecord
	ExpiryStatus        expiry.Bucket `json:"expiryStatus"`
	DaysUntilExpiration int           `json:"daysUntilExpiration"`
}

func newRecordResponse(rec *models.CredentialRecord, now time.Time) recordResponse {
	return recordResponse{
		CredentialRecord:    rec,
		ExpiryStatus:        expiry.Classify(rec.ExpiresDate, now),
		DaysUntilExpiration: expiry.DaysUntil(rec.ExpiresDate, now),
	}
}

func newRecordResponses(recs []*models.CredentialRecord, now time.Time) []recordResponse {
	out := make([]recordResponse, len(recs))
	for i, rec := range recs {
		out[i] = newRecordResponse(rec, now)
	}
	return out
}
