package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	"github.com/oksasatya/go-ddd-todo/internal/domain/repository"
)

type todoDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"user"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	DueDate     *time.Time         `bson:"dueDate,omitempty"`
	Completed   bool               `bson:"completed"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d todoDoc) toEntity() *entity.Todo {
	return &entity.Todo{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// TodoRepository scopes every single-document operation by {_id, user}.
type TodoRepository struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

func NewTodoRepository(db *mongo.Database) *TodoRepository {
	return &TodoRepository{coll: db.Collection(todosCollection), users: db.Collection(usersCollection)}
}

func (r *TodoRepository) Create(ctx context.Context, t *entity.Todo) error {
	owner, ok := objectID(t.UserID)
	if !ok {
		return repository.ErrNotFound
	}
	// no foreign keys in mongo; the owner must exist before the insert
	n, err := r.users.CountDocuments(ctx, bson.M{"_id": owner}, options.Count().SetLimit(1))
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	doc := todoDoc{
		UserID:      owner,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return mapError(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid.Hex()
	}
	t.CreatedAt, t.UpdatedAt = now, now
	return nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Todo, error) {
	owner, ok := objectID(ownerID)
	if !ok {
		return nil, nil
	}
	return r.find(ctx, bson.M{"user": owner}, bson.D{{Key: "createdAt", Value: 1}})
}

func (r *TodoRepository) Get(ctx context.Context, id, ownerID string) (*entity.Todo, error) {
	filter, ok := scoped(id, ownerID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	var doc todoDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toEntity(), nil
}

func (r *TodoRepository) Update(ctx context.Context, id, ownerID string, changes entity.TodoChanges) (*entity.Todo, error) {
	filter, ok := scoped(id, ownerID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	if changes.Title != nil {
		set["title"] = *changes.Title
	}
	if changes.Description != nil {
		set["description"] = *changes.Description
	}
	if changes.DueDate != nil && !changes.ClearDueDate {
		set["dueDate"] = *changes.DueDate
	}
	if changes.Completed != nil {
		set["completed"] = *changes.Completed
	}
	update := bson.M{"$set": set}
	if changes.ClearDueDate {
		update["$unset"] = bson.M{"dueDate": ""}
	}
	var doc todoDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, mapError(err)
	}
	return doc.toEntity(), nil
}

func (r *TodoRepository) Delete(ctx context.Context, id, ownerID string) (*entity.Todo, error) {
	filter, ok := scoped(id, ownerID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	var doc todoDoc
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toEntity(), nil
}

func (r *TodoRepository) ListDueBetween(ctx context.Context, ownerID string, from, to time.Time) ([]entity.Todo, error) {
	owner, ok := objectID(ownerID)
	if !ok {
		return nil, nil
	}
	filter := bson.M{"user": owner, "dueDate": bson.M{"$gte": from, "$lt": to}}
	return r.find(ctx, filter, bson.D{{Key: "dueDate", Value: 1}, {Key: "createdAt", Value: 1}})
}

func (r *TodoRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]entity.Todo, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, mapError(err)
	}
	var docs []todoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError(err)
	}
	out := make([]entity.Todo, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toEntity())
	}
	return out, nil
}

func scoped(id, ownerID string) (bson.M, bool) {
	oid, ok := objectID(id)
	if !ok {
		return nil, false
	}
	owner, ok := objectID(ownerID)
	if !ok {
		return nil, false
	}
	return bson.M{"_id": oid, "user": owner}, true
}

var _ repository.TodoRepository = (*TodoRepository)(nil)
