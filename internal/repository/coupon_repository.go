package repository

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/ecommerce-backend/internal/model"
)

// CouponRepo persists per-user discount codes in the `coupons` collection.
type CouponRepo struct{ Col *mongo.Collection }

func NewCouponRepo(db *mongo.Database) *CouponRepo {
	return &CouponRepo{Col: db.Collection("coupons")}
}

// GetActiveForUser returns the user's active coupon, if any.
func (r *CouponRepo) GetActiveForUser(ctx context.Context, userID bson.ObjectID) (model.Coupon, error) {
	var c model.Coupon
	err := r.Col.FindOne(ctx, bson.M{"userId": userID, "isActive": true}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Coupon{}, ErrCouponNotFound
	}
	return c, err
}

// GetByCodeForUser returns the active coupon matching a code owned by the
// given user.  Coupons are user-bound, so the same code held by another
// user does not validate.
func (r *CouponRepo) GetByCodeForUser(ctx context.Context, code string, userID bson.ObjectID) (model.Coupon, error) {
	var c model.Coupon
	err := r.Col.FindOne(ctx, bson.M{
		"code":     strings.TrimSpace(code),
		"userId":   userID,
		"isActive": true,
	}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Coupon{}, ErrCouponNotFound
	}
	return c, err
}

// Deactivate flips isActive off, used when a coupon is first seen past its
// expiration date.
func (r *CouponRepo) Deactivate(ctx context.Context, id bson.ObjectID) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": false}})
	return err
}
