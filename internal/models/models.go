package models

import "time"

// DefaultAttractiveness is the score every profile starts with, and the
// implicit baseline rating included in every recomputation.
const DefaultAttractiveness = 10.0

// Profile represents a user's dating profile
type Profile struct {
	ID             string    `json:"id" bson:"_id"`
	Email          string    `json:"email" bson:"email"`
	Gender         string    `json:"gender" bson:"gender"`
	LookingFor     []string  `json:"lookingFor" bson:"looking_for"`
	PhotoURL       string    `json:"photoUrl" bson:"photo_url"`
	Answers        []int     `json:"answers" bson:"answers"`
	Attractiveness float64   `json:"attractiveness" bson:"attractiveness"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
}

// HasPhoto reports whether the profile may appear as a match candidate
func (p *Profile) HasPhoto() bool {
	return p.PhotoURL != ""
}

// Wants reports whether gender is one of the genders p is looking for
func (p *Profile) Wants(gender string) bool {
	for _, g := range p.LookingFor {
		if g == gender {
			return true
		}
	}
	return false
}

// Message represents a chat message between two profiles
type Message struct {
	ID        string    `json:"id" bson:"_id"`
	Sender    string    `json:"sender" bson:"sender"`
	Recipient string    `json:"recipient" bson:"recipient"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// Rating represents one profile's rating of another.
// At most one rating exists per (Rater, RatedUser).
type Rating struct {
	ID        string    `json:"id" bson:"_id"`
	Rater     string    `json:"rater" bson:"rater"`
	RatedUser string    `json:"ratedUser" bson:"rated_user"`
	Value     int       `json:"value" bson:"value"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
