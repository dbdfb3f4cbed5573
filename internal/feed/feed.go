package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/dmorgan81/autologo/internal/log"
	"github.com/dmorgan81/autologo/internal/session"
	"github.com/gorilla/feeds"
	"github.com/samber/lo"
)

// Generate renders the history as an RSS document, newest first.
func Generate(ctx context.Context, brandName string, history []session.GeneratedLogo) ([]byte, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("feed")
	log.Info("generating rss feed", "items", len(history))

	updated := time.Now()
	if len(history) > 0 {
		updated = history[0].Timestamp
	}

	feed := feeds.Feed{
		Title:       fmt.Sprintf("%s logo concepts", brandName),
		Description: "Iteration history of generated logo concepts",
		Link:        &feeds.Link{Href: "https://autologo.local/"},
		Updated:     updated,
		Items: lo.Map(history, func(l session.GeneratedLogo, _ int) *feeds.Item {
			return &feeds.Item{
				Id:          l.ID,
				Title:       l.Prompt,
				Link:        &feeds.Link{Href: "https://autologo.local/logos/" + l.ID},
				Description: l.Prompt,
				Created:     l.Timestamp,
			}
		}),
	}

	rss, err := feed.ToRss()
	return []byte(rss), err
}
