package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chatstack/chat-api/internal/core/domain"
	"github.com/chatstack/chat-api/internal/core/ports"
)

const messagesCollection = "messages"

// MessageRepository implements ports.MessageRepository.
type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{coll: db.Collection(messagesCollection)}
}

type mongoMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AuthorID  primitive.ObjectID `bson:"author_id"`
	Content   string             `bson:"content"`
	Timestamp time.Time          `bson:"timestamp"`
}

func (mm mongoMessage) toDomain() *domain.Message {
	return &domain.Message{
		ID:        mm.ID.Hex(),
		AuthorID:  mm.AuthorID.Hex(),
		Content:   mm.Content,
		Timestamp: mm.Timestamp.UTC(),
	}
}

func (r *MessageRepository) Insert(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	authorID, err := primitive.ObjectIDFromHex(msg.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("parse author id: %w", err)
	}

	doc := mongoMessage{
		AuthorID:  authorID,
		Content:   msg.Content,
		Timestamp: msg.Timestamp.UTC(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// ListAll returns messages by timestamp descending; _id descending breaks
// ties in insertion order since ObjectIDs grow monotonically.
func (r *MessageRepository) ListAll(ctx context.Context) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sort := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, sort)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoMessage
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	msgs := make([]*domain.Message, 0, len(docs))
	for _, mm := range docs {
		msgs = append(msgs, mm.toDomain())
	}
	return msgs, nil
}

// ReassignAuthor bulk-repoints message ownership. It deliberately skips the
// per-call timeout wrapper: inside the delete transaction the session
// context governs the deadline.
func (r *MessageRepository) ReassignAuthor(ctx context.Context, fromID, toID string) (int64, error) {
	from, err := primitive.ObjectIDFromHex(fromID)
	if err != nil {
		return 0, fmt.Errorf("parse source author id: %w", err)
	}
	to, err := primitive.ObjectIDFromHex(toID)
	if err != nil {
		return 0, fmt.Errorf("parse target author id: %w", err)
	}

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"author_id": from},
		bson.M{"$set": bson.M{"author_id": to}},
	)
	if err != nil {
		return 0, fmt.Errorf("reassign messages: %w", err)
	}
	return res.ModifiedCount, nil
}

// StatsByAuthor computes count, first/last timestamp, average content length
// and last content per author in a single aggregation pass. The leading sort
// makes $last deterministic (latest timestamp, insertion order on ties).
func (r *MessageRepository) StatsByAuthor(ctx context.Context) (map[string]domain.MessageAggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$author_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "first_at", Value: bson.D{{Key: "$min", Value: "$timestamp"}}},
			{Key: "last_at", Value: bson.D{{Key: "$max", Value: "$timestamp"}}},
			{Key: "avg_len", Value: bson.D{{Key: "$avg", Value: bson.D{{Key: "$strLenCP", Value: "$content"}}}}},
			{Key: "last_content", Value: bson.D{{Key: "$last", Value: "$content"}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate message stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		AuthorID    primitive.ObjectID `bson:"_id"`
		Count       int64              `bson:"count"`
		FirstAt     time.Time          `bson:"first_at"`
		LastAt      time.Time          `bson:"last_at"`
		AvgLen      float64            `bson:"avg_len"`
		LastContent string             `bson:"last_content"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode message stats: %w", err)
	}

	stats := make(map[string]domain.MessageAggregate, len(rows))
	for _, row := range rows {
		stats[row.AuthorID.Hex()] = domain.MessageAggregate{
			Count:         row.Count,
			FirstAt:       row.FirstAt.UTC(),
			LastAt:        row.LastAt.UTC(),
			AvgContentLen: row.AvgLen,
			LastContent:   row.LastContent,
		}
	}
	return stats, nil
}

// EnsureIndexes creates the indexes backing listing and reassignment.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

var _ ports.MessageRepository = (*MessageRepository)(nil)
