package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/ecommerce-backend/internal/model"
)

// ProductRepo persists catalog entries in the `products` collection.
type ProductRepo struct{ Col *mongo.Collection }

func NewProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{Col: db.Collection("products")}
}

// Create inserts a product and returns the stored document.
func (r *ProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	now := time.Now().UTC()
	p.ID = bson.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := r.Col.InsertOne(ctx, p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// GetByID fetches a single product; a malformed id maps to
// ErrProductNotFound like an absent document.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (model.Product, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.Product{}, ErrProductNotFound
	}
	var p model.Product
	err = r.Col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Product{}, ErrProductNotFound
	}
	return p, err
}

// ListAll returns every product in the catalog.
func (r *ProductRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	return r.list(ctx, bson.M{})
}

// ListFeatured returns products flagged as featured.  Callers are expected
// to consult the featured cache first.
func (r *ProductRepo) ListFeatured(ctx context.Context) ([]model.Product, error) {
	return r.list(ctx, bson.M{"isFeatured": true})
}

// ListByCategory returns products in the given category.
func (r *ProductRepo) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return r.list(ctx, bson.M{"category": strings.TrimSpace(category)})
}

// ListByIDs returns the products whose _id is in the given set.  Used by
// the cart endpoints to join embedded cart items to their documents.
func (r *ProductRepo) ListByIDs(ctx context.Context, ids []bson.ObjectID) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	return r.list(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// Sample returns n random products with a trimmed projection, used for the
// public recommendations endpoint.
func (r *ProductRepo) Sample(ctx context.Context, n int) ([]model.Product, error) {
	cur, err := r.Col.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: n}}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "name", Value: 1},
			{Key: "description", Value: 1},
			{Key: "image", Value: 1},
			{Key: "price", Value: 1},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []model.Product{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetFeatured flips the isFeatured flag on a product.
func (r *ProductRepo) SetFeatured(ctx context.Context, id bson.ObjectID, featured bool) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"isFeatured": featured, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product document.
func (r *ProductRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) list(ctx context.Context, filter bson.M) ([]model.Product, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []model.Product{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
