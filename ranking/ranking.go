// Package ranking holds the rating aggregation rules: per-person view models,
// the leaderboard ordering and the display rounding. Everything here is a pure
// function over already-loaded records.
package ranking

import (
	"math"
	"sort"
	"time"

	"github.com/facette/natsort"

	"github.com/camden-git/facerankbackend/models"
)

// PersonView is the client-facing shape for a person on the rating page.
type PersonView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Images       []string `json:"images"`
	Thumbnails   []string `json:"thumbnails,omitempty"`
	AvgRating    float64  `json:"avgRating"`
	TotalRatings int      `json:"totalRatings"`
	UserVoted    bool     `json:"userVoted"`
	UserRating   *int     `json:"userRating"`
	CreatedAt    string   `json:"createdAt"`
}

// LeaderboardEntry is the client-facing shape for one leaderboard row.
type LeaderboardEntry struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Image        *string `json:"image"`
	Thumbnail    *string `json:"thumbnail,omitempty"`
	AvgRating    float64 `json:"avgRating"`
	TotalRatings int     `json:"totalRatings"`
}

// Round1 rounds to one decimal place, the display precision for averages.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// average returns the rounded mean of all rating values, 0 when there are
// none. Zero is the deliberate display default, not a missing-data marker.
func average(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return Round1(float64(sum) / float64(len(ratings)))
}

// BuildPersonView shapes a person with preloaded images and ratings into the
// response model, resolving the requesting voter's own vote.
func BuildPersonView(p models.Person, voterIP string) PersonView {
	view := PersonView{
		ID:           p.ID,
		Name:         p.Name,
		Images:       make([]string, 0, len(p.Images)),
		AvgRating:    average(p.Ratings),
		TotalRatings: len(p.Ratings),
		CreatedAt:    time.Unix(p.CreatedAt, 0).UTC().Format(time.RFC3339),
	}

	for _, img := range p.Images {
		view.Images = append(view.Images, img.URL)
		if img.ThumbnailURL != nil {
			view.Thumbnails = append(view.Thumbnails, *img.ThumbnailURL)
		}
	}

	for _, r := range p.Ratings {
		if r.IPAddress == voterIP {
			view.UserVoted = true
			value := r.Rating
			view.UserRating = &value
			break
		}
	}

	return view
}

// BuildPersonViews maps BuildPersonView over a list, preserving input order.
func BuildPersonViews(people []models.Person, voterIP string) []PersonView {
	views := make([]PersonView, 0, len(people))
	for _, p := range people {
		views = append(views, BuildPersonView(p, voterIP))
	}
	return views
}

// BuildLeaderboard returns one entry per person, ordered by average rating
// descending. Ties are broken by total ratings descending, then by natural
// name order, so the output is fully deterministic. No filtering: output
// length always equals input length.
func BuildLeaderboard(people []models.Person) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(people))
	for _, p := range people {
		entry := LeaderboardEntry{
			ID:           p.ID,
			Name:         p.Name,
			AvgRating:    average(p.Ratings),
			TotalRatings: len(p.Ratings),
		}
		if len(p.Images) > 0 {
			url := p.Images[0].URL
			entry.Image = &url
			if thumb := p.Images[0].ThumbnailURL; thumb != nil {
				entry.Thumbnail = thumb
			}
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AvgRating != entries[j].AvgRating {
			return entries[i].AvgRating > entries[j].AvgRating
		}
		if entries[i].TotalRatings != entries[j].TotalRatings {
			return entries[i].TotalRatings > entries[j].TotalRatings
		}
		return natsort.Compare(entries[i].Name, entries[j].Name)
	})

	return entries
}
