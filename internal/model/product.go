package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product is a catalog entry in the `products` collection.  Image holds a
// URL; uploading the binary itself is handled outside this service.
type Product struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
	Price       float64       `bson:"price" json:"price"`
	Image       string        `bson:"image" json:"image"`
	Category    string        `bson:"category" json:"category"`
	IsFeatured  bool          `bson:"isFeatured" json:"isFeatured"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// CartProduct is a product joined with the quantity from the requesting
// user's cart.  Returned by the cart endpoints only.
type CartProduct struct {
	Product  `bson:",inline"`
	Quantity int `json:"quantity"`
}
