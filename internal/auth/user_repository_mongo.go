package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// userDocument is the stored shape of a User in the users collection.
type userDocument struct {
	ID             bson.ObjectID `bson:"_id"`
	Username       string        `bson:"username"`
	Email          string        `bson:"email"`
	Birthday       string        `bson:"birthday,omitempty"`
	PasswordHash   string        `bson:"password_hash"`
	FavoriteMovies []string      `bson:"favorite_movies"`
	CreatedAt      time.Time     `bson:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at"`
}

func (d *userDocument) toUser() *User {
	favorites := d.FavoriteMovies
	if favorites == nil {
		favorites = []string{}
	}
	return &User{
		ID:             d.ID.Hex(),
		Username:       d.Username,
		Email:          d.Email,
		Birthday:       d.Birthday,
		PasswordHash:   d.PasswordHash,
		FavoriteMovies: favorites,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// MongoUserRepository implements UserRepository on a MongoDB collection.
// Uniqueness of username relies on the index created by
// mongodb.Store.EnsureIndexes.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a repository over the users collection.
func NewMongoUserRepository(coll *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{coll: coll}
}

// Create inserts a new account with a fresh ObjectID.
func (r *MongoUserRepository) Create(ctx context.Context, user *User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	favorites := []string{}
	for _, id := range user.FavoriteMovies {
		if !slices.Contains(favorites, id) {
			favorites = append(favorites, id)
		}
	}

	doc := userDocument{
		ID:             bson.NewObjectID(),
		Username:       user.Username,
		Email:          user.Email,
		Birthday:       user.Birthday,
		PasswordHash:   user.PasswordHash,
		FavoriteMovies: favorites,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("creating user: %w", err)
	}

	*user = *doc.toUser()
	return nil
}

// GetByID retrieves an account by its hex ObjectID. A malformed ID is
// reported as not found.
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

// GetByUsername retrieves an account by exact username.
func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

// List returns all accounts ordered by creation date.
func (r *MongoUserRepository) List(ctx context.Context) ([]User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "username", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []User{}
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding user: %w", err)
		}
		users = append(users, *doc.toUser())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// Update writes the account's mutable fields.
func (r *MongoUserRepository) Update(ctx context.Context, user *User) error {
	oid, err := bson.ObjectIDFromHex(user.ID)
	if err != nil {
		return ErrUserNotFound
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	set := bson.D{
		{Key: "username", Value: user.Username},
		{Key: "email", Value: user.Email},
		{Key: "password_hash", Value: user.PasswordHash},
		{Key: "updated_at", Value: now},
	}
	if user.Birthday != "" {
		set = append(set, bson.E{Key: "birthday", Value: user.Birthday})
	}
	update := bson.D{{Key: "$set", Value: set}}
	if user.Birthday == "" {
		update = append(update, bson.E{Key: "$unset", Value: bson.D{{Key: "birthday", Value: ""}}})
	}

	result, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("updating user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	user.UpdatedAt = now
	return nil
}

// Delete removes an account.
func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddFavorite adds movieID with $addToSet, so concurrent duplicate adds
// leave a single entry.
func (r *MongoUserRepository) AddFavorite(ctx context.Context, userID, movieID string) (*User, error) {
	return r.updateFavorites(ctx, userID, "$addToSet", movieID)
}

// RemoveFavorite removes movieID with $pull.
func (r *MongoUserRepository) RemoveFavorite(ctx context.Context, userID, movieID string) (*User, error) {
	return r.updateFavorites(ctx, userID, "$pull", movieID)
}

// Count returns the number of accounts.
func (r *MongoUserRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return int(n), nil
}

func (r *MongoUserRepository) updateFavorites(ctx context.Context, userID, operator, movieID string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	update := bson.D{
		{Key: operator, Value: bson.D{{Key: "favorite_movies", Value: movieID}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC().Truncate(time.Millisecond)}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("updating favorites: %w", err)
	}
	return doc.toUser(), nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.D) (*User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return doc.toUser(), nil
}
