package repository

import (
	"testing"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestAgentViewFromProjectedDocument(t *testing.T) {
	// Shape of a document returned by the available-agents projection: the
	// profile fields stay nested under delivery_profile.
	doc := bson.M{
		"_id":   "a1",
		"name":  "Riya",
		"phone": "555-0101",
		"delivery_profile": bson.M{
			"vehicle":          "bike",
			"current_location": bson.M{"lat": 1.5, "lng": 2.5},
		},
	}
	raw, err := bson.Marshal(doc)
	assert.NoError(t, err)

	var user models.User
	assert.NoError(t, bson.Unmarshal(raw, &user))

	view := agentView(&user)
	assert.Equal(t, "a1", view.ID)
	assert.Equal(t, "Riya", view.Name)
	assert.Equal(t, "555-0101", view.Phone)
	assert.Equal(t, "bike", view.Vehicle)
	assert.Equal(t, 1.5, view.Location.Lat)
	assert.Equal(t, 2.5, view.Location.Lng)
}

func TestAgentViewWithoutProfile(t *testing.T) {
	view := agentView(&models.User{ID: "a2", Name: "Sam"})
	assert.Equal(t, "a2", view.ID)
	assert.Empty(t, view.Vehicle)
	assert.Zero(t, view.Location.Lat)
}
