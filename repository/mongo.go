package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medicine-chatbot-backend/models"
)

var byID = bson.D{{Key: "_id", Value: 1}}

type MongoMedicineRepository struct {
	coll *mongo.Collection
}

func NewMongoMedicineRepository(coll *mongo.Collection) *MongoMedicineRepository {
	return &MongoMedicineRepository{coll: coll}
}

func (r *MongoMedicineRepository) ListAll(ctx context.Context) ([]models.Medicine, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(byID))
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	defer cursor.Close(ctx)

	medicines := []models.Medicine{}
	if err := cursor.All(ctx, &medicines); err != nil {
		return nil, fmt.Errorf("failed to decode medicines: %w", err)
	}
	return medicines, nil
}

func (r *MongoMedicineRepository) FindByName(ctx context.Context, name string) (*models.Medicine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNotFound
	}

	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}}
	return r.findOne(ctx, filter)
}

func (r *MongoMedicineRepository) FindByID(ctx context.Context, id string) (*models.Medicine, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoMedicineRepository) findOne(ctx context.Context, filter bson.M) (*models.Medicine, error) {
	var medicine models.Medicine
	err := r.coll.FindOne(ctx, filter, options.FindOne().SetSort(byID)).Decode(&medicine)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find medicine: %w", err)
	}
	return &medicine, nil
}

func (r *MongoMedicineRepository) UpsertMany(ctx context.Context, medicines []models.Medicine) (int, error) {
	written := 0
	for _, m := range medicines {
		m.ID = primitive.NilObjectID
		_, err := r.coll.ReplaceOne(ctx, bson.M{"name": m.Name}, m, options.Replace().SetUpsert(true))
		if err != nil {
			return written, fmt.Errorf("failed to upsert medicine %q: %w", m.Name, err)
		}
		written++
	}
	return written, nil
}

type MongoSessionRepository struct {
	coll *mongo.Collection
}

func NewMongoSessionRepository(coll *mongo.Collection) *MongoSessionRepository {
	return &MongoSessionRepository{coll: coll}
}

func (r *MongoSessionRepository) Load(ctx context.Context, key string) (*models.Session, error) {
	var session models.Session
	err := r.coll.FindOne(ctx, bson.M{"session_id": key}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewSession(key), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Cart == nil {
		session.Cart = []models.CartItem{}
	}
	if session.PendingMedicines == nil {
		session.PendingMedicines = []string{}
	}
	return &session, nil
}

func (r *MongoSessionRepository) Save(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now().UTC()
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"session_id": session.SessionID},
		session,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

type MongoChatRepository struct {
	coll *mongo.Collection
}

func NewMongoChatRepository(coll *mongo.Collection) *MongoChatRepository {
	return &MongoChatRepository{coll: coll}
}

func (r *MongoChatRepository) Append(ctx context.Context, turn *models.ChatTurn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	res, err := r.coll.InsertOne(ctx, turn)
	if err != nil {
		return fmt.Errorf("failed to save chat turn: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		turn.ID = oid
	}
	return nil
}

func (r *MongoChatRepository) History(ctx context.Context, key string, limit int) ([]models.ChatTurn, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, bson.M{"session_id": key}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	defer cursor.Close(ctx)

	turns := []models.ChatTurn{}
	if err := cursor.All(ctx, &turns); err != nil {
		return nil, fmt.Errorf("failed to decode chat history: %w", err)
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

type MongoOrderRepository struct {
	coll *mongo.Collection
}

func NewMongoOrderRepository(coll *mongo.Collection) *MongoOrderRepository {
	return &MongoOrderRepository{coll: coll}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	res, err := r.coll.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

func (r *MongoOrderRepository) ListBySession(ctx context.Context, key string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"session_id": key}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}
