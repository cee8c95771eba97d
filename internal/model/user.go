package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Roles assignable to a user.  New accounts default to RoleCustomer;
// RoleAdmin unlocks the catalog management endpoints.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// CartItem is a single entry in a user's cart, embedded on the user
// document.  Product references the products collection.
type CartItem struct {
	ProductID bson.ObjectID `bson:"product" json:"product"`
	Quantity  int           `bson:"quantity" json:"quantity"`
}

// User represents an account document in the `users` collection.  The
// bcrypt password hash is never serialized to JSON; handlers additionally
// load users through a projection that drops the field entirely once the
// password has been verified.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Email     string        `bson:"email" json:"email"`
	Password  string        `bson:"password,omitempty" json:"-"`
	CartItems []CartItem    `bson:"cartItems" json:"cartItems"`
	Role      string        `bson:"role" json:"role"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the user may access admin-gated routes.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
