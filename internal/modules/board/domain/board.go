package domain

import (
	"time"
	"unicode/utf8"

	channelDomain "github.com/reshetovitsme/streamboard/internal/modules/channel/domain"
	"github.com/samber/lo"
)

const (
	// PlaceholderLogoNonExistent is shown for channels the service does not know
	PlaceholderLogoNonExistent = "http://res.cloudinary.com/dqzrtsqol/image/upload/v1464091895/TwitchGlitchIcon_WhiteonPurple_bt6alc.png"
	// PlaceholderLogoMissing is shown for existing channels without a logo
	PlaceholderLogoMissing = "http://res.cloudinary.com/dqzrtsqol/image/upload/v1464091895/TwitchGlitchIcon_PurpleonWhite_tayh1q.png"

	// LongDescriptionThreshold is the description length above which an
	// entry needs the multi-row layout
	LongDescriptionThreshold = 70

	// StatusTextNonExistent is shown for channels the service does not know
	StatusTextNonExistent = "No such channel"
	// StatusTextOffline is shown for existing channels that are not streaming
	StatusTextOffline = "Channel is currently offline"
	// StatusTextUnknown is shown when the live status could not be fetched
	StatusTextUnknown = "Status unavailable"
)

// Entry is one rendered row of the board
type Entry struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Existent        bool                 `json:"existent"`
	Status          channelDomain.Status `json:"status"`
	LogoURL         string               `json:"logo_url"`
	LinkURL         string               `json:"link_url,omitempty"`
	StatusText      string               `json:"status_text"`
	StyleClass      string               `json:"style_class"`
	FilterClass     string               `json:"filter_class"`
	LongDescription bool                 `json:"long_description"`
}

// NewEntry derives the row shown for a channel record
func NewEntry(r channelDomain.Record) Entry {
	if !r.Existent() {
		return Entry{
			ID:          r.ID,
			Name:        r.ID,
			Status:      channelDomain.StatusUnknown,
			LogoURL:     PlaceholderLogoNonExistent,
			StatusText:  StatusTextNonExistent,
			StyleClass:  "list-group-item-warning",
			FilterClass: "non-existent",
		}
	}

	e := Entry{
		ID:       r.ID,
		Name:     lo.Ternary(r.DisplayName != "", r.DisplayName, r.ID),
		Existent: true,
		Status:   r.Status,
		LogoURL:  lo.Ternary(r.LogoURL != "", r.LogoURL, PlaceholderLogoMissing),
		LinkURL:  r.ProfileURL,
	}

	switch r.Status {
	case channelDomain.StatusOnline:
		e.StatusText = r.StatusDescription
		e.StyleClass = "list-group-item-success"
		e.FilterClass = "online"
		e.LongDescription = IsLongDescription(r.StatusDescription)
	case channelDomain.StatusOffline:
		e.StatusText = StatusTextOffline
		e.StyleClass = "list-group-item-info"
		e.FilterClass = "offline"
	default:
		e.StatusText = StatusTextUnknown
		e.StyleClass = "list-group-item-default"
		e.FilterClass = "unknown"
	}
	return e
}

// IsLongDescription reports whether a stream description is longer than
// LongDescriptionThreshold characters
func IsLongDescription(description string) bool {
	return utf8.RuneCountInString(description) > LongDescriptionThreshold
}

// Matches reports whether the entry is shown under filter
func (e Entry) Matches(filter Filter) bool {
	switch filter {
	case FilterOnline:
		return e.Existent && e.Status == channelDomain.StatusOnline
	case FilterOffline:
		return e.Existent && e.Status == channelDomain.StatusOffline
	case FilterNonExistent:
		return !e.Existent
	default:
		return true
	}
}

// Board is the rendered list of all channels, in configured order
type Board struct {
	Entries     []Entry                    `json:"channels"`
	State       channelDomain.RefreshState `json:"refresh_state"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// NewBoard renders a result set
func NewBoard(rs channelDomain.ResultSet, state channelDomain.RefreshState, now time.Time) *Board {
	return &Board{
		Entries:     lo.Map(rs.Records(), func(r channelDomain.Record, _ int) Entry { return NewEntry(r) }),
		State:       state,
		GeneratedAt: now,
	}
}

// Filter returns the entries shown under filter
func (b *Board) Filter(filter Filter) []Entry {
	return lo.Filter(b.Entries, func(e Entry, _ int) bool {
		return e.Matches(filter)
	})
}

// Count returns how many entries are shown under filter
func (b *Board) Count(filter Filter) int {
	return lo.CountBy(b.Entries, func(e Entry) bool {
		return e.Matches(filter)
	})
}

// Label is the human readable name of the filter
func (f Filter) Label() string {
	switch f {
	case FilterOnline:
		return "Online"
	case FilterOffline:
		return "Offline"
	case FilterNonExistent:
		return "Not Existing"
	default:
		return "All Channels"
	}
}
