package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hasratyan/aoryx.am/internal/domain"
)

const Collection = "user_favorites"

type Repo struct{ col *mongo.Collection }

func New(db *mongo.Database) *Repo { return &Repo{col: db.Collection(Collection)} }

// EnsureIndexes creates the unique (userId, hotelCode) key plus the listing
// index. Safe to call at every startup.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "hotelCode", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "savedAt", Value: -1}},
		},
	})
	return err
}

func (r *Repo) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	cur, err := r.col.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "savedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Favorite{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, userID, hotelCode string) (domain.Favorite, error) {
	var f domain.Favorite
	err := r.col.FindOne(ctx, bson.M{"userId": userID, "hotelCode": hotelCode}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Favorite{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Favorite{}, err
	}
	return f, nil
}

func (r *Repo) Upsert(ctx context.Context, f domain.Favorite) error {
	filter := bson.M{"userId": f.UserID, "hotelCode": f.HotelCode}
	update := bson.M{
		"$set": bson.M{
			"name":      f.Name,
			"city":      f.City,
			"address":   f.Address,
			"imageUrl":  f.ImageURL,
			"rating":    f.Rating,
			"source":    f.Source,
			"savedAt":   f.SavedAt,
			"updatedAt": f.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"userId":    f.UserID,
			"hotelCode": f.HotelCode,
			"createdAt": f.CreatedAt,
		},
	}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *Repo) Delete(ctx context.Context, userID, hotelCode string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"userId": userID, "hotelCode": hotelCode})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
