package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// movieDocument is the stored shape of a Movie in the movies collection.
type movieDocument struct {
	ID          bson.ObjectID `bson:"_id"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	Genre       Genre         `bson:"genre"`
	Director    Director      `bson:"director"`
	Actors      []string      `bson:"actors"`
	ImageURL    string        `bson:"image_url"`
	Featured    bool          `bson:"featured"`
	CreatedAt   time.Time     `bson:"created_at"`
}

func (d *movieDocument) toMovie() Movie {
	actors := d.Actors
	if actors == nil {
		actors = []string{}
	}
	return Movie{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Genre:       d.Genre,
		Director:    d.Director,
		Actors:      actors,
		ImageURL:    d.ImageURL,
		Featured:    d.Featured,
	}
}

// MongoRepository implements Repository on a MongoDB collection.
// Title uniqueness relies on the index created by mongodb.Store.EnsureIndexes.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a repository over the movies collection.
func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

var byTitle = options.Find().SetSort(bson.D{{Key: "title", Value: 1}})

// List returns every movie ordered by title.
func (r *MongoRepository) List(ctx context.Context) ([]Movie, error) {
	return r.find(ctx, bson.D{})
}

// GetByID returns a movie by its hex ObjectID. A malformed ID is reported as
// not found.
func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Movie, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrMovieNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

// GetByTitle returns a movie by exact title.
func (r *MongoRepository) GetByTitle(ctx context.Context, title string) (*Movie, error) {
	return r.findOne(ctx, bson.D{{Key: "title", Value: title}})
}

// GetGenre returns the genre as recorded on the first matching movie.
func (r *MongoRepository) GetGenre(ctx context.Context, name string) (*Genre, error) {
	m, err := r.findOne(ctx, bson.D{{Key: "genre.name", Value: equalFold(name)}})
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return &m.Genre, nil
}

// GetDirector returns the director as recorded on the first matching movie.
func (r *MongoRepository) GetDirector(ctx context.Context, name string) (*Director, error) {
	m, err := r.findOne(ctx, bson.D{{Key: "director.name", Value: equalFold(name)}})
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			return nil, ErrDirectorNotFound
		}
		return nil, err
	}
	return &m.Director, nil
}

// ListByGenre returns the movies of a genre ordered by title.
func (r *MongoRepository) ListByGenre(ctx context.Context, name string) ([]Movie, error) {
	return r.find(ctx, bson.D{{Key: "genre.name", Value: equalFold(name)}})
}

// ListByDirector returns the movies of a director ordered by title.
func (r *MongoRepository) ListByDirector(ctx context.Context, name string) ([]Movie, error) {
	return r.find(ctx, bson.D{{Key: "director.name", Value: equalFold(name)}})
}

// Create inserts a movie with a fresh ObjectID.
func (r *MongoRepository) Create(ctx context.Context, movie *Movie) error {
	if movie.Title == "" {
		return ErrInvalidMovie
	}
	actors := movie.Actors
	if actors == nil {
		actors = []string{}
	}

	doc := movieDocument{
		ID:          bson.NewObjectID(),
		Title:       movie.Title,
		Description: movie.Description,
		Genre:       movie.Genre,
		Director:    movie.Director,
		Actors:      actors,
		ImageURL:    movie.ImageURL,
		Featured:    movie.Featured,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrMovieExists
		}
		return fmt.Errorf("inserting movie %q: %w", movie.Title, err)
	}

	*movie = doc.toMovie()
	return nil
}

// Count returns the number of movies.
func (r *MongoRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("counting movies: %w", err)
	}
	return int(n), nil
}

func (r *MongoRepository) find(ctx context.Context, filter bson.D) ([]Movie, error) {
	cursor, err := r.coll.Find(ctx, filter, byTitle)
	if err != nil {
		return nil, fmt.Errorf("querying movies: %w", err)
	}
	defer cursor.Close(ctx)

	movies := []Movie{}
	for cursor.Next(ctx) {
		var doc movieDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding movie: %w", err)
		}
		movies = append(movies, doc.toMovie())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating movies: %w", err)
	}
	return movies, nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.D) (*Movie, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "title", Value: 1}})

	var doc movieDocument
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("finding movie: %w", err)
	}
	m := doc.toMovie()
	return &m, nil
}

// equalFold builds an anchored, case-insensitive regex matching name literally.
func equalFold(name string) bson.Regex {
	return bson.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}
}
