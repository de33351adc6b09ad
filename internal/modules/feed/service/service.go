package service

import (
	"context"
	"fmt"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/streamboard/internal/modules/board/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// BoardLoader provides the rendered board
type BoardLoader interface {
	Load(ctx context.Context) (*domain.Board, error)
}

// Service handles RSS feed generation for live channels
type Service struct {
	boards BoardLoader
}

// New creates a new feed service
func New(boards BoardLoader) *Service {
	return &Service{
		boards: boards,
	}
}

// GenerateFeed generates an RSS feed with one item per online channel
func (s *Service) GenerateFeed(ctx context.Context, baseURL string) (*feeds.Feed, error) {
	board, err := s.boards.Load(ctx)
	if err != nil {
		return nil, oops.In("feed").With("context", "failed to load board").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       "Live channels",
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/?filter=%s", baseURL, domain.FilterOnline)},
		Description: fmt.Sprintf("%d of %d channels are live", board.Count(domain.FilterOnline), len(board.Entries)),
		Created:     board.State.LastExistenceRefresh,
		Updated:     board.State.LastStatusRefresh,
	}

	feed.Items = lo.Map(board.Filter(domain.FilterOnline), func(e domain.Entry, _ int) *feeds.Item {
		return entryToFeedItem(e, board)
	})
	return feed, nil
}

func entryToFeedItem(e domain.Entry, board *domain.Board) *feeds.Item {
	return &feeds.Item{
		Title:       fmt.Sprintf("%s is live", e.Name),
		Link:        &feeds.Link{Href: e.LinkURL},
		Description: e.StatusText,
		Author:      &feeds.Author{Name: e.Name},
		Created:     board.State.LastStatusRefresh,
		Id:          fmt.Sprintf("%s-%d", e.ID, board.State.LastStatusRefresh.Unix()),
	}
}
