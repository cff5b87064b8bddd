package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"TODOAPP_BACK-END/internal/common"
	"TODOAPP_BACK-END/internal/models"
)

type todoDoc struct {
	ID          bson.ObjectID `bson:"_id"`
	Text        string        `bson:"text"`
	Completed   bool          `bson:"completed"`
	CompletedAt *int64        `bson:"completedAt"`
	Creator     bson.ObjectID `bson:"_creator"`
}

func (d *todoDoc) model() *models.Todo {
	return &models.Todo{
		ID:          d.ID.Hex(),
		Text:        d.Text,
		Completed:   d.Completed,
		CompletedAt: d.CompletedAt,
		CreatorID:   d.Creator.Hex(),
	}
}

// TodoRepository stores todos in the todos collection. Every filter carries
// the _creator field.
type TodoRepository struct {
	coll *mongo.Collection
}

// ownedFilter returns ErrNotFound for ids that cannot name a stored record.
func ownedFilter(creatorID, id string) (bson.M, error) {
	creator, err := objectID(creatorID)
	if err != nil {
		return nil, err
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "_creator": creator}, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	oid, err := bson.ObjectIDFromHex(todo.ID)
	if err != nil {
		return common.ErrInvalidID
	}
	creator, err := bson.ObjectIDFromHex(todo.CreatorID)
	if err != nil {
		return common.ErrInvalidID
	}
	doc := todoDoc{ID: oid, Text: todo.Text, Completed: todo.Completed, CompletedAt: todo.CompletedAt, Creator: creator}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	return nil
}

func (r *TodoRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Todo, error) {
	out := make([]models.Todo, 0)
	creator, err := objectID(creatorID)
	if err != nil {
		return out, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_creator": creator}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc todoDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *doc.model())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *TodoRepository) FindOwned(ctx context.Context, creatorID, id string) (*models.Todo, error) {
	filter, err := ownedFilter(creatorID, id)
	if err != nil {
		return nil, err
	}
	var doc todoDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}

func (r *TodoRepository) UpdateOwned(ctx context.Context, creatorID, id string, upd models.TodoUpdate) (*models.Todo, error) {
	filter, err := ownedFilter(creatorID, id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"completed": upd.Completed, "completedAt": upd.CompletedAt}
	if upd.Text != nil {
		set["text"] = *upd.Text
	}

	var doc todoDoc
	err = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}

func (r *TodoRepository) DeleteOwned(ctx context.Context, creatorID, id string) (*models.Todo, error) {
	filter, err := ownedFilter(creatorID, id)
	if err != nil {
		return nil, err
	}
	var doc todoDoc
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}
