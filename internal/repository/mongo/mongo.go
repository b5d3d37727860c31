package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"perfect-match-backend/internal/models"
	"perfect-match-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	profilesCollection = "profiles"
	messagesCollection = "messages"
	ratingsCollection  = "ratings"
)

// Mongo is a thin adapter over the MongoDB collections used by the stores
type Mongo struct {
	client   *mongodriver.Client
	profiles *mongodriver.Collection
	messages *mongodriver.Collection
	ratings  *mongodriver.Collection
}

// New connects to MongoDB, pings it and ensures the indexes exist
func New(ctx context.Context, uri, database string) (*Mongo, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: empty uri")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(database)
	m := &Mongo{
		client:   cli,
		profiles: db.Collection(profilesCollection),
		messages: db.Collection(messagesCollection),
		ratings:  db.Collection(ratingsCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(context.Background())
		return nil, err
	}

	return m, nil
}

// Close disconnects the client
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes creates:
//   - unique email on profiles
//   - unique (rater, rated_user) on ratings, plus rated_user for recomputation
//   - (sender, recipient, created_at) on messages for conversations
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	if _, err := m.profiles.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	}); err != nil {
		return fmt.Errorf("mongo ensure profile indexes: %w", err)
	}

	if _, err := m.ratings.Indexes().CreateMany(ctx, []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "rater", Value: 1}, {Key: "rated_user", Value: 1}},
			Options: options.Index().SetName("rater_rated_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "rated_user", Value: 1}},
			Options: options.Index().SetName("rated_user"),
		},
	}); err != nil {
		return fmt.Errorf("mongo ensure rating indexes: %w", err)
	}

	if _, err := m.messages.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "sender", Value: 1}, {Key: "recipient", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("pair_created_asc"),
	}); err != nil {
		return fmt.Errorf("mongo ensure message indexes: %w", err)
	}

	return nil
}

// Profiles returns the profile store
func (m *Mongo) Profiles() *ProfileStore { return &ProfileStore{coll: m.profiles} }

// Messages returns the message store
func (m *Mongo) Messages() *MessageStore { return &MessageStore{coll: m.messages} }

// Ratings returns the rating store
func (m *Mongo) Ratings() *RatingStore { return &RatingStore{coll: m.ratings} }

// ProfileStore persists profiles in the profiles collection
type ProfileStore struct {
	coll *mongodriver.Collection
}

// Create inserts a new profile
func (s *ProfileStore) Create(ctx context.Context, p *models.Profile) error {
	const op = "storage/mongo/CreateProfile"

	if _, err := s.coll.InsertOne(ctx, normalizeProfile(p)); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, repository.ErrConflict)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetByID retrieves a profile by ID
func (s *ProfileStore) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	const op = "storage/mongo/ProfileByID"

	var out models.Profile
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out.CreatedAt = out.CreatedAt.UTC()
	return &out, nil
}

// GetByIDs retrieves every profile whose ID is in ids; unknown IDs are skipped
func (s *ProfileStore) GetByIDs(ctx context.Context, ids []string) ([]*models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.find(ctx, "storage/mongo/ProfilesByIDs", bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
}

// FindCandidates returns profiles that mutually match p's gender preference,
// have a photo and are not p itself
func (s *ProfileStore) FindCandidates(ctx context.Context, p *models.Profile) ([]*models.Profile, error) {
	filter := bson.D{
		{Key: "_id", Value: bson.D{{Key: "$ne", Value: p.ID}}},
		{Key: "gender", Value: bson.D{{Key: "$in", Value: p.LookingFor}}},
		{Key: "looking_for", Value: bson.D{{Key: "$in", Value: bson.A{p.Gender}}}},
		{Key: "photo_url", Value: bson.D{{Key: "$ne", Value: ""}}},
	}
	return s.find(ctx, "storage/mongo/FindCandidates", filter)
}

// SetAnswers replaces the questionnaire answers of profile id
func (s *ProfileStore) SetAnswers(ctx context.Context, id string, answers []int) error {
	if answers == nil {
		answers = []int{}
	}
	return s.set(ctx, "storage/mongo/SetAnswers", id, bson.D{{Key: "answers", Value: answers}})
}

// SetPhoto sets the photo URL of profile id together with the attractiveness
// the new photo starts with
func (s *ProfileStore) SetPhoto(ctx context.Context, id, photoURL string, attractiveness float64) error {
	return s.set(ctx, "storage/mongo/SetPhoto", id, bson.D{
		{Key: "photo_url", Value: photoURL},
		{Key: "attractiveness", Value: attractiveness},
	})
}

// SetAttractiveness updates only the attractiveness of profile id
func (s *ProfileStore) SetAttractiveness(ctx context.Context, id string, value float64) error {
	return s.set(ctx, "storage/mongo/SetAttractiveness", id, bson.D{{Key: "attractiveness", Value: value}})
}

// set applies a $set of fields to profile id
func (s *ProfileStore) set(ctx context.Context, op, id string, fields bson.D) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: fields}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return nil
}

func (s *ProfileStore) find(ctx context.Context, op string, filter bson.D) ([]*models.Profile, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var out []*models.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	return out, nil
}

// MessageStore persists messages in the messages collection
type MessageStore struct {
	coll *mongodriver.Collection
}

// Create inserts a message
func (s *MessageStore) Create(ctx context.Context, msg *models.Message) error {
	cp := *msg
	cp.CreatedAt = toMS(cp.CreatedAt)
	if _, err := s.coll.InsertOne(ctx, cp); err != nil {
		return fmt.Errorf("storage/mongo/CreateMessage: %w", err)
	}
	return nil
}

// Conversation returns every message exchanged between a and b, oldest first
func (s *MessageStore) Conversation(ctx context.Context, a, b string) ([]*models.Message, error) {
	const op = "storage/mongo/Conversation"

	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "sender", Value: a}, {Key: "recipient", Value: b}},
		bson.D{{Key: "sender", Value: b}, {Key: "recipient", Value: a}},
	}}}

	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var out []*models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	return out, nil
}

// RatingStore persists ratings in the ratings collection
type RatingStore struct {
	coll *mongodriver.Collection
}

// Create inserts a rating; the unique index rejects a second rating per pair
func (s *RatingStore) Create(ctx context.Context, r *models.Rating) error {
	const op = "storage/mongo/CreateRating"

	cp := *r
	cp.CreatedAt = toMS(cp.CreatedAt)
	if _, err := s.coll.InsertOne(ctx, cp); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, repository.ErrConflict)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Exists checks if rater has already rated ratedUser
func (s *RatingStore) Exists(ctx context.Context, rater, ratedUser string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx,
		bson.D{{Key: "rater", Value: rater}, {Key: "rated_user", Value: ratedUser}},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("storage/mongo/RatingExists: %w", err)
	}
	return n > 0, nil
}

// ListByRater returns every rating authored by rater
func (s *RatingStore) ListByRater(ctx context.Context, rater string) ([]*models.Rating, error) {
	const op = "storage/mongo/RatingsByRater"

	cur, err := s.coll.Find(ctx, bson.D{{Key: "rater", Value: rater}}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var out []*models.Rating
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	return out, nil
}

// ValuesFor returns the value of every rating ratedUser has received
func (s *RatingStore) ValuesFor(ctx context.Context, ratedUser string) ([]int, error) {
	const op = "storage/mongo/RatingValues"

	cur, err := s.coll.Find(ctx,
		bson.D{{Key: "rated_user", Value: ratedUser}},
		options.Find().SetProjection(bson.D{{Key: "value", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var values []int
	for cur.Next(ctx) {
		var doc struct {
			Value int `bson:"value"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		values = append(values, doc.Value)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return values, nil
}

// MongoDB DateTime keeps milliseconds
func toMS(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func normalizeProfile(p *models.Profile) models.Profile {
	cp := *p
	cp.CreatedAt = toMS(cp.CreatedAt)
	if cp.LookingFor == nil {
		cp.LookingFor = []string{}
	}
	if cp.Answers == nil {
		cp.Answers = []int{}
	}
	return cp
}
