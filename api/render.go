package api

import (
	"strings"
	"time"

	"skimr/types"

	"github.com/russross/blackfriday/v2"
)

var summaryRenderer = blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
	Flags: blackfriday.SkipHTML | blackfriday.Safelink | blackfriday.NofollowLinks,
})

// renderSummary converts the Markdown bullet summary into HTML. Raw HTML in
// the summary is dropped.
func renderSummary(summary string) string {
	if strings.TrimSpace(summary) == "" {
		return ""
	}
	out := blackfriday.Run([]byte(summary),
		blackfriday.WithRenderer(summaryRenderer),
		blackfriday.WithExtensions(blackfriday.CommonExtensions),
	)
	return strings.TrimSpace(string(out))
}

type itemView struct {
	ID          string            `json:"id"`
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	Summary     string            `json:"summary"`
	SummaryHTML string            `json:"summaryHtml"`
	UserID      string            `json:"userId,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	User        *types.PublicUser `json:"user,omitempty"`
}

func newItemView(it types.Item) itemView {
	return itemView{
		ID:          it.ID,
		URL:         it.URL,
		Title:       it.Title,
		Summary:     it.Summary,
		SummaryHTML: renderSummary(it.Summary),
		UserID:      it.UserID,
		CreatedAt:   it.CreatedAt,
	}
}

func itemViews(items []types.Item) []itemView {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, newItemView(it))
	}
	return out
}

func feedViews(items []types.FeedItem) []itemView {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		v := newItemView(it.Item)
		author := it.Author
		v.User = &author
		out = append(out, v)
	}
	return out
}

type followView struct {
	types.Follow
	Follower  *types.PublicUser `json:"follower,omitempty"`
	Following *types.PublicUser `json:"following,omitempty"`
}

// followerViews puts the other end of each edge under "follower".
func followerViews(edges []types.FollowEdge) []followView {
	out := make([]followView, 0, len(edges))
	for _, e := range edges {
		u := e.User
		out = append(out, followView{Follow: e.Follow, Follower: &u})
	}
	return out
}

func followingViews(edges []types.FollowEdge) []followView {
	out := make([]followView, 0, len(edges))
	for _, e := range edges {
		u := e.User
		out = append(out, followView{Follow: e.Follow, Following: &u})
	}
	return out
}
