package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/minifeed/feed-service/internal/core/domain"
	"github.com/minifeed/feed-service/internal/core/ports"
)

const collectionPosts = "posts"

type PostRepository struct {
	col *mongo.Collection
}

var _ ports.PostRepository = (*PostRepository)(nil)

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Author    string             `bson:"author"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at"`
	Likes     int                `bson:"likes"`
	LikedBy   []string           `bson:"liked_by"`
}

func (d *postDocument) toDomain() *domain.Post {
	likedBy := d.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	return &domain.Post{
		ID:        d.ID.Hex(),
		Author:    d.Author,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		Likes:     d.Likes,
		LikedBy:   likedBy,
	}
}

// listSort orders newest first; ObjectIDs grow with insertion, so ties keep
// the earlier insert first.
var listSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}

// Create inserts p and assigns its ID.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	likedBy := p.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	doc := postDocument{
		ID:        primitive.NewObjectID(),
		Author:    p.Author,
		Content:   p.Content,
		CreatedAt: p.CreatedAt.UTC(),
		Likes:     len(likedBy),
		LikedBy:   likedBy,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return domain.NewStoreError("insert post", err)
	}

	p.ID = doc.ID.Hex()
	p.Likes = doc.Likes
	p.LikedBy = likedBy
	return nil
}

// ListAll returns every post, newest first.
func (r *PostRepository) ListAll(ctx context.Context) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.D{}, options.Find().SetSort(listSort))
	if err != nil {
		return nil, domain.NewStoreError("find posts", err)
	}
	defer cur.Close(ctx)

	var docs []postDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.NewStoreError("decode posts", err)
	}

	posts := make([]*domain.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toDomain())
	}
	return posts, nil
}

// FindByID treats a malformed id like a missing post.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, domain.NewStoreError("find post", err)
	}
	return doc.toDomain(), nil
}

// Delete removes the post; a missing post is not an error.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return domain.NewStoreError("delete post", err)
	}
	return nil
}

// toggleLikePipeline rewrites liked_by and recomputes likes from it inside a
// single update, so the counter always equals the set size. The user id is
// always wrapped in $literal: a name such as "$author" must not be read as a
// field path.
func toggleLikePipeline(userID string) mongo.Pipeline {
	likedBy := bson.M{"$ifNull": bson.A{"$liked_by", bson.A{}}}
	user := bson.M{"$literal": userID}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"liked_by": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{user, likedBy}},
				bson.M{"$filter": bson.M{
					"input": likedBy,
					"cond":  bson.M{"$ne": bson.A{"$$this", user}},
				}},
				bson.M{"$concatArrays": bson.A{likedBy, bson.A{user}}},
			}},
		}}},
		{{Key: "$set", Value: bson.M{
			"likes": bson.M{"$size": "$liked_by"},
		}}},
	}
}

// ToggleLike flips userID's like with one FindOneAndUpdate.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID string) (*domain.LikeResult, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDocument
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, toggleLikePipeline(userID), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, domain.NewStoreError("toggle like", err)
	}

	post := doc.toDomain()
	return &domain.LikeResult{Likes: post.Likes, IsLiked: post.IsLikedBy(userID)}, nil
}

// EnsureIndexes creates the index backing the feed sort.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: listSort},
	})
	return err
}
