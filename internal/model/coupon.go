package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Coupon is a per-user discount code in the `coupons` collection.  A coupon
// belongs to exactly one user and is deactivated the first time it is seen
// past its expiration date.
type Coupon struct {
	ID                 bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Code               string        `bson:"code" json:"code"`
	DiscountPercentage float64       `bson:"discountPercentage" json:"discountPercentage"`
	ExpirationDate     time.Time     `bson:"expirationDate" json:"expirationDate"`
	IsActive           bool          `bson:"isActive" json:"isActive"`
	UserID             bson.ObjectID `bson:"userId" json:"userId"`
}
