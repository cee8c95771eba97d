package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/utils"
)

// UserRepo persists user accounts in the `users` collection.
type UserRepo struct{ Col *mongo.Collection }

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{Col: db.Collection("users")}
}

// Create hashes the password and inserts a new user document.  Hashing
// happens here rather than in handlers so every insert path stores a hash,
// never a raw password.  Emails are normalized to lower case; the unique
// index turns duplicates into ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	now := time.Now().UTC()
	u := model.User{
		ID:        bson.NewObjectID(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Password:  hash,
		CartItems: []model.CartItem{},
		Role:      model.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.Col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email, password hash included.
// Only the login path uses this; everything else goes through GetByID.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.Col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by its hex identifier with the password hash
// projected out.  A malformed identifier (e.g. from a tampered token) is
// reported as ErrUserNotFound, same as a deleted account.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.User{}, ErrUserNotFound
	}
	var u model.User
	err = r.Col.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"password": 0})).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// SetCartItems replaces the embedded cart of a user.  The cart handlers
// read-modify-write the slice; last write wins, which matches the
// single-session model of the rest of the service.
func (r *UserRepo) SetCartItems(ctx context.Context, userID bson.ObjectID, items []model.CartItem) error {
	if items == nil {
		items = []model.CartItem{}
	}
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"cartItems": items, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
