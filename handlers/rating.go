package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/camden-git/facerankbackend/models"
	"github.com/camden-git/facerankbackend/repository"
)

// ratings are 1-5, the scale the voting UI presents
const (
	minRating = 1
	maxRating = 5
)

// RatingHandler serves vote submission and vote deletion.
type RatingHandler struct {
	People  repository.PersonRepositoryInterface
	Ratings repository.RatingRepositoryInterface
}

// SubmitRating handles POST /api/rate. The store's unique constraint is the
// only already-voted check; a constraint conflict surfaces as a 400 with the
// alreadyVoted flag so clients can offer vote deletion.
func (rh *RatingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PersonID string `json:"personId"`
		Rating   *int   `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if req.PersonID == "" || req.Rating == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Person ID and rating are required"})
		return
	}

	if *req.Rating < minRating || *req.Rating > maxRating {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Rating must be between 1 and 5"})
		return
	}

	if _, err := rh.People.GetByID(req.PersonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Person not found"})
		} else {
			log.Printf("Error checking person %s before rating: %v", req.PersonID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to submit rating"})
		}
		return
	}

	rating := &models.Rating{
		PersonID:  req.PersonID,
		IPAddress: clientIP(r),
		Rating:    *req.Rating,
	}
	if err := rh.Ratings.Create(rating); err != nil {
		if errors.Is(err, repository.ErrAlreadyRated) {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":        "You have already voted for this person. Delete your previous vote to vote again.",
				"alreadyVoted": true,
			})
			return
		}
		log.Printf("Error submitting rating for person %s: %v", req.PersonID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to submit rating"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Rating submitted successfully"})
}

// DeleteVote handles DELETE /api/rate/{personId}, removing the requesting
// voter's rating so they may vote again.
func (rh *RatingHandler) DeleteVote(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personId")

	if _, err := rh.People.GetByID(personID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Person not found"})
		} else {
			log.Printf("Error checking person %s before vote deletion: %v", personID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete vote"})
		}
		return
	}

	if err := rh.Ratings.DeleteByPersonAndIP(personID, clientIP(r)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "You haven't voted for this person"})
		} else {
			log.Printf("Error deleting vote for person %s: %v", personID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete vote"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Vote deleted successfully"})
}
