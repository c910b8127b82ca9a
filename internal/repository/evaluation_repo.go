package repository

import (
	"contenteval/internal/doctree"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

//go:generate mockgen -source=evaluation_repo.go -destination=mocks/mock_evaluation_repo.go -package=mocks

// EvaluationRepo reads stored evaluation documents. It never writes.
type EvaluationRepo interface {
	// FindAll returns every document in the collection
	FindAll(ctx context.Context) ([]doctree.Tree, error)
	// FindByID returns nil, nil when no document has the id
	FindByID(ctx context.Context, id string) (doctree.Tree, error)
}

type evaluationRepo struct {
	collection *mongo.Collection
}

// NewEvaluationRepo creates a repository over the named collection
func NewEvaluationRepo(db *mongo.Database, collection string) EvaluationRepo {
	return &evaluationRepo{
		collection: db.Collection(collection),
	}
}

func (r *evaluationRepo) FindAll(ctx context.Context) ([]doctree.Tree, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode evaluations: %w", err)
	}

	trees := make([]doctree.Tree, 0, len(docs))
	for _, doc := range docs {
		trees = append(trees, doctree.Tree(doc))
	}
	return trees, nil
}

func (r *evaluationRepo) FindByID(ctx context.Context, id string) (doctree.Tree, error) {
	var doc bson.M
	err := r.collection.FindOne(ctx, idFilter(id)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doctree.Tree(doc), nil
}

// idFilter matches ObjectID hex ids and plain string ids alike
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}
