package handlers

import (
	"log"
	"net/http"

	"github.com/camden-git/facerankbackend/ranking"
	"github.com/camden-git/facerankbackend/repository"
)

// PersonHandler serves the public read-only views: the rating page listing
// and the leaderboard.
type PersonHandler struct {
	People repository.PersonRepositoryInterface
}

// ListPeople returns every person newest first, shaped for the rating page
// with the requesting voter's own vote resolved.
func (ph *PersonHandler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := ph.People.ListAllWithRelations()
	if err != nil {
		log.Printf("Error listing people: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch people"})
		return
	}
	writeJSON(w, http.StatusOK, ranking.BuildPersonViews(people, clientIP(r)))
}

// Leaderboard returns every person ordered by average rating descending.
func (ph *PersonHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	people, err := ph.People.ListAllWithRelations()
	if err != nil {
		log.Printf("Error fetching leaderboard: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch leaderboard"})
		return
	}
	writeJSON(w, http.StatusOK, ranking.BuildLeaderboard(people))
}
