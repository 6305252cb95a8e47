package domain

import "time"

// Favorite is one saved hotel. Unique per (UserID, HotelCode); the display
// fields are denormalized from the search result at save time so the
// favorites page renders without a vendor round trip.
type Favorite struct {
	UserID    string    `bson:"userId" json:"userId"`
	HotelCode string    `bson:"hotelCode" json:"hotelCode"`
	Name      *string   `bson:"name,omitempty" json:"name"`
	City      *string   `bson:"city,omitempty" json:"city"`
	Address   *string   `bson:"address,omitempty" json:"address"`
	ImageURL  *string   `bson:"imageUrl,omitempty" json:"imageUrl"`
	Rating    *float64  `bson:"rating,omitempty" json:"rating"`
	Source    string    `bson:"source" json:"source"`
	SavedAt   time.Time `bson:"savedAt" json:"savedAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
