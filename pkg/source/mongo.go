package source

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/keyword"
)

// MongoOptions configures a MongoSource.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string

	// Timeout bounds connection setup and every query. Zero uses 10s.
	Timeout time.Duration
}

// Defaults for MongoOptions.
const (
	DefaultMongoDatabase   = "wordcloud"
	DefaultMongoCollection = "submissions"
)

// submissionDoc is the stored form of a submission.
type submissionDoc struct {
	BoardID    string    `bson:"board_id"`
	Text       string    `bson:"text"`
	Normalized string    `bson:"normalized"`
	Approved   bool      `bson:"approved"`
	CreatedAt  time.Time `bson:"created_at"`
}

// keywordRow is one result row of the top-keywords aggregation.
type keywordRow struct {
	Text  string `bson:"_id"`
	Count int    `bson:"count"`
}

// MongoSource aggregates submissions stored in MongoDB. Submissions carry
// their normalized text, so ranking is a single $group over an index on
// (board_id, approved, normalized).
type MongoSource struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
	now     func() time.Time
}

// NewMongoSource connects and pings the primary.
func NewMongoSource(ctx context.Context, opts MongoOptions) (*MongoSource, error) {
	if opts.URI == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "mongo source needs a URI")
	}
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(opts.Timeout).
		SetServerSelectionTimeout(opts.Timeout))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeSourceUnavailable, err, "connect to mongo")
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperrors.Wrap(apperrors.ErrCodeSourceUnavailable, err, "ping mongo")
	}

	return &MongoSource{
		client:  client,
		coll:    client.Database(opts.Database).Collection(opts.Collection),
		timeout: opts.Timeout,
		now:     time.Now,
	}, nil
}

// EnsureIndexes creates the index the ranking query relies on.
func (s *MongoSource) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "board_id", Value: 1},
			{Key: "approved", Value: 1},
			{Key: "normalized", Value: 1},
		},
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeSourceUnavailable, err, "create submissions index")
	}
	return nil
}

// topKeywordsPipeline groups approved submissions of a board by normalized
// text and keeps the most frequent.
func topKeywordsPipeline(boardID string, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "board_id", Value: boardID},
			{Key: "approved", Value: true},
			{Key: "normalized", Value: bson.D{{Key: "$ne", Value: ""}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$normalized"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "count", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		{{Key: "$limit", Value: limit}},
	}
}

// TopKeywords implements Source. Boards without submissions yield an empty
// list; Mongo has no separate board registry to report them missing.
// Network errors and timeouts are retried with backoff.
func (s *MongoSource) TopKeywords(ctx context.Context, boardID string, limit int) ([]cloud.KeywordCount, error) {
	if err := apperrors.ValidateBoardID(boardID); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rows []keywordRow
	err := retry(ctx, retryAttempts, retryDelay, func() error {
		cur, err := s.coll.Aggregate(ctx, topKeywordsPipeline(boardID, keyword.ClampLimit(limit)))
		if err != nil {
			return transient(err)
		}
		rows = rows[:0]
		return transient(cur.All(ctx, &rows))
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeSourceUnavailable, err, "aggregate keywords")
	}

	out := make([]cloud.KeywordCount, len(rows))
	for i, r := range rows {
		out[i] = cloud.KeywordCount{Text: r.Text, Count: r.Count}
	}
	return out, nil
}

// Submit implements Submitter. The normalized form is stored alongside the
// raw text.
func (s *MongoSource) Submit(ctx context.Context, sub keyword.Submission) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.coll.InsertOne(ctx, submissionDoc{
		BoardID:    sub.BoardID,
		Text:       sub.Text,
		Normalized: keyword.Normalize(sub.Text),
		Approved:   sub.Approved,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeSourceUnavailable, err, "insert submission")
	}
	return nil
}

// Close disconnects the client.
func (s *MongoSource) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var (
	_ Source    = (*MongoSource)(nil)
	_ Submitter = (*MongoSource)(nil)
)
