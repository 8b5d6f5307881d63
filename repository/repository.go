// Package repository persists the catalog, sessions, chat log and orders. Each store
// has a MongoDB implementation and an in-memory one used by DB_TYPE=memory and
// the tests.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"medicine-chatbot-backend/database"
	"medicine-chatbot-backend/models"
)

// ErrNotFound is returned when a lookup resolves no document.
var ErrNotFound = errors.New("not found")

// MedicineRepository reads the medicine catalog.
type MedicineRepository interface {
	// ListAll returns every medicine in natural store order.
	ListAll(ctx context.Context) ([]models.Medicine, error)
	// FindByName returns the first medicine whose name contains name, ignoring case.
	FindByName(ctx context.Context, name string) (*models.Medicine, error)
	FindByID(ctx context.Context, id string) (*models.Medicine, error)
	// UpsertMany replaces catalog entries by name and reports how many were written.
	UpsertMany(ctx context.Context, medicines []models.Medicine) (int, error)
}

// SessionRepository loads and stores whole session documents. There is no
// versioning: concurrent turns on one key are last-writer-wins.
type SessionRepository interface {
	// Load returns the stored session or a fresh one when the key is new.
	Load(ctx context.Context, key string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
}

// ChatRepository is the append-only chat log.
type ChatRepository interface {
	Append(ctx context.Context, turn *models.ChatTurn) error
	// History returns the newest limit turns in chronological order; limit <= 0 means all.
	History(ctx context.Context, key string, limit int) ([]models.ChatTurn, error)
}

// OrderRepository stores placed orders.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	// ListBySession returns the session's orders, newest first.
	ListBySession(ctx context.Context, key string) ([]models.Order, error)
}

// Repositories bundles the stores a running service needs.
type Repositories struct {
	Medicines MedicineRepository
	Sessions  SessionRepository
	Chats     ChatRepository
	Orders    OrderRepository
}

func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Medicines: NewMongoMedicineRepository(db.Collection(database.MedicinesCollection)),
		Sessions:  NewMongoSessionRepository(db.Collection(database.SessionsCollection)),
		Chats:     NewMongoChatRepository(db.Collection(database.ChatsCollection)),
		Orders:    NewMongoOrderRepository(db.Collection(database.OrdersCollection)),
	}
}

func NewMemoryRepositories(medicines ...models.Medicine) *Repositories {
	return &Repositories{
		Medicines: NewMemoryMedicineRepository(medicines...),
		Sessions:  NewMemorySessionRepository(),
		Chats:     NewMemoryChatRepository(),
		Orders:    NewMemoryOrderRepository(),
	}
}
