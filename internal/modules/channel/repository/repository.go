package repository

import (
	"github.com/reshetovitsme/streamboard/internal/modules/channel/domain"
)

// Repository defines the interface for the aggregated channel records.
// SaveAll must publish a whole batch atomically so readers never see a
// partially settled batch.
type Repository interface {
	SaveAll(records []domain.Record) error
	GetChannel(channelID string) (domain.Record, error)
	Snapshot() domain.ResultSet
}
