package domain

import "time"

// Record is the aggregated view of one configured channel
type Record struct {
	ID                string    `json:"id"`
	Existence         Existence `json:"existence"`
	DisplayName       string    `json:"display_name,omitempty"`
	LogoURL           string    `json:"logo_url,omitempty"`
	ProfileURL        string    `json:"profile_url,omitempty"`
	Status            Status    `json:"status"`
	StatusDescription string    `json:"status_description,omitempty"`
}

// NewRecord returns a record whose existence and status are not resolved yet
func NewRecord(id string) Record {
	return Record{
		ID:        id,
		Existence: ExistenceUnknown,
		Status:    StatusUnknown,
	}
}

// Existent reports whether the channel resolved as a real account
func (r Record) Existent() bool {
	return r.Existence == ExistenceExistent
}

// Online reports whether an existing channel is currently streaming
func (r Record) Online() bool {
	return r.Existent() && r.Status == StatusOnline
}

// RefreshState holds the one-shot gates of both batches. A zero time means
// the batch has not completed yet.
type RefreshState struct {
	LastExistenceRefresh time.Time `json:"last_existence_refresh"`
	LastStatusRefresh    time.Time `json:"last_status_refresh"`
}

func (s RefreshState) ExistenceResolved() bool {
	return !s.LastExistenceRefresh.IsZero()
}

func (s RefreshState) StatusResolved() bool {
	return !s.LastStatusRefresh.IsZero()
}
