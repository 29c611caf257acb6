package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/facerankbackend/models"
)

func ratingsWithValues(values ...int) []models.Rating {
	ratings := make([]models.Rating, 0, len(values))
	for i, v := range values {
		ratings = append(ratings, models.Rating{
			PersonID:  "p1",
			IPAddress: "10.0.0." + string(rune('1'+i)),
			Rating:    v,
		})
	}
	return ratings
}

func TestAverageZeroRatings(t *testing.T) {
	view := BuildPersonView(models.Person{ID: "p1", Name: "Alice"}, "1.2.3.4")
	assert.Equal(t, 0.0, view.AvgRating)
	assert.Equal(t, 0, view.TotalRatings)
	assert.False(t, view.UserVoted)
	assert.Nil(t, view.UserRating)
}

func TestAverageRoundsToOneDecimal(t *testing.T) {
	p := models.Person{ID: "p1", Name: "Alice", Ratings: ratingsWithValues(3, 4, 4)}
	view := BuildPersonView(p, "1.2.3.4")
	// 3.666... rounds to 3.7
	assert.Equal(t, 3.7, view.AvgRating)
	assert.Equal(t, 3, view.TotalRatings)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 3.7, Round1(3.666666))
	assert.Equal(t, 3.6, Round1(3.64))
	assert.Equal(t, 5.0, Round1(4.95))
	assert.Equal(t, 0.0, Round1(0))
}

func TestBuildPersonViewUserVote(t *testing.T) {
	p := models.Person{
		ID:   "p1",
		Name: "Alice",
		Ratings: []models.Rating{
			{PersonID: "p1", IPAddress: "10.0.0.1", Rating: 2},
			{PersonID: "p1", IPAddress: "10.0.0.2", Rating: 4},
		},
	}

	view := BuildPersonView(p, "10.0.0.2")
	assert.True(t, view.UserVoted)
	require.NotNil(t, view.UserRating)
	assert.Equal(t, 4, *view.UserRating)

	view = BuildPersonView(p, "10.0.0.9")
	assert.False(t, view.UserVoted)
	assert.Nil(t, view.UserRating)
}

func TestBuildPersonViewImageOrder(t *testing.T) {
	thumb := "http://cdn.test/thumbnails/a.jpg"
	p := models.Person{
		ID:   "p1",
		Name: "Alice",
		Images: []models.Image{
			{ID: 1, URL: "http://cdn.test/originals/first.jpg", ThumbnailURL: &thumb},
			{ID: 2, URL: "http://cdn.test/originals/second.jpg"},
		},
	}
	view := BuildPersonView(p, "1.2.3.4")
	assert.Equal(t, []string{"http://cdn.test/originals/first.jpg", "http://cdn.test/originals/second.jpg"}, view.Images)
	assert.Equal(t, []string{thumb}, view.Thumbnails)
}

func TestBuildLeaderboardOrdering(t *testing.T) {
	people := []models.Person{
		{ID: "a", Name: "Alice", Ratings: ratingsWithValues(4, 4, 5)},  // 4.3
		{ID: "b", Name: "Bob", Ratings: ratingsWithValues(5, 5)},       // 5.0
		{ID: "c", Name: "Carol", Ratings: ratingsWithValues(4, 4, 5)},  // 4.3
		{ID: "d", Name: "Dave"},                                        // 0
	}

	entries := BuildLeaderboard(people)
	require.Len(t, entries, len(people))

	assert.Equal(t, "b", entries[0].ID)
	// tie at 4.3 with equal totals: natural name order
	assert.Equal(t, "a", entries[1].ID)
	assert.Equal(t, "c", entries[2].ID)
	assert.Equal(t, "d", entries[3].ID)
	assert.Equal(t, 5.0, entries[0].AvgRating)
	assert.Equal(t, 4.3, entries[1].AvgRating)
}

func TestBuildLeaderboardTieBreakByTotalRatings(t *testing.T) {
	people := []models.Person{
		{ID: "few", Name: "Few", Ratings: ratingsWithValues(4)},
		{ID: "many", Name: "Many", Ratings: ratingsWithValues(4, 4, 4)},
	}

	entries := BuildLeaderboard(people)
	require.Len(t, entries, 2)
	assert.Equal(t, "many", entries[0].ID)
	assert.Equal(t, "few", entries[1].ID)
}

func TestBuildLeaderboardNaturalNameOrder(t *testing.T) {
	people := []models.Person{
		{ID: "p10", Name: "Player 10"},
		{ID: "p2", Name: "Player 2"},
	}

	entries := BuildLeaderboard(people)
	require.Len(t, entries, 2)
	// natural sort: "Player 2" before "Player 10"
	assert.Equal(t, "p2", entries[0].ID)
	assert.Equal(t, "p10", entries[1].ID)
}

func TestBuildLeaderboardFirstImage(t *testing.T) {
	people := []models.Person{
		{ID: "a", Name: "Alice", Images: []models.Image{
			{ID: 1, URL: "http://cdn.test/originals/one.jpg"},
			{ID: 2, URL: "http://cdn.test/originals/two.jpg"},
		}},
		{ID: "b", Name: "Bob"},
	}

	entries := BuildLeaderboard(people)
	require.NotNil(t, entries[0].Image)
	assert.Equal(t, "http://cdn.test/originals/one.jpg", *entries[0].Image)
	assert.Nil(t, entries[1].Image)
}
