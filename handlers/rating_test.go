package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/facerankbackend/models"
)

func TestSubmitRatingValidation(t *testing.T) {
	env := newTestEnv(t)
	person := env.createPerson(t, "Alice")

	// missing rating
	rec := env.serve(jsonRequest(t, http.MethodPost, "/api/rate", map[string]interface{}{"personId": person.ID}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// missing person id
	rec = env.serve(jsonRequest(t, http.MethodPost, "/api/rate", map[string]interface{}{"rating": 3}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, invalid := range []int{0, 6, -1} {
		rec = env.serve(jsonRequest(t, http.MethodPost, "/api/rate", map[string]interface{}{"personId": person.ID, "rating": invalid}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Rating must be between 1 and 5", decodeBody(t, rec)["error"])
	}
}

func TestSubmitRatingUnknownPerson(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(jsonRequest(t, http.MethodPost, "/api/rate", map[string]interface{}{"personId": "no-such-person", "rating": 3}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Person not found", decodeBody(t, rec)["error"])
}

func TestSubmitRatingOncePerVoter(t *testing.T) {
	env := newTestEnv(t)
	person := env.createPerson(t, "Alice")

	rec := env.serve(jsonRequest(t, http.MethodPost, "/api/rate", map[string]interface{}{"personId": person.ID, "rating": 4}))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Rating submitted successfully", body["message"])

	// same voter again: conflict with the alreadyVoted marker
	rec = env.serve(jsonRequest(t, http.MethodPost, "/api/rate", map[string]interface{}{"personId": person.ID, "rating": 2}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["alreadyVoted"])

	// a different voter is unaffected
	req := jsonRequest(t, http.MethodPost, "/api/rate", map[string]interface{}{"personId": person.ID, "rating": 5})
	req.RemoteAddr = "198.51.100.7:4242"
	rec = env.serve(req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Rating{}).Where("person_id = ?", person.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestDeleteVoteThenRevoteFlow(t *testing.T) {
	env := newTestEnv(t)
	person := env.createPerson(t, "Alice")

	// no vote yet
	rec := env.serve(jsonRequest(t, http.MethodDelete, "/api/rate/"+person.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "You haven't voted for this person", decodeBody(t, rec)["error"])

	rec = env.serve(jsonRequest(t, http.MethodPost, "/api/rate", map[string]interface{}{"personId": person.ID, "rating": 2}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.serve(jsonRequest(t, http.MethodDelete, "/api/rate/"+person.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Vote deleted successfully", decodeBody(t, rec)["message"])

	// voter can vote again after deleting
	rec = env.serve(jsonRequest(t, http.MethodPost, "/api/rate", map[string]interface{}{"personId": person.ID, "rating": 5}))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteVoteUnknownPerson(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(jsonRequest(t, http.MethodDelete, "/api/rate/no-such-person", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Person not found", decodeBody(t, rec)["error"])
}
