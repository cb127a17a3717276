package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
)

type categoryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// CategoryRepository stores categories in the categories collection
type CategoryRepository struct {
	baseRepository
}

var _ interfaces.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository creates a category repository
func NewCategoryRepository(db *mongo.Database, timeout time.Duration, logger logging.Logger) *CategoryRepository {
	return &CategoryRepository{newBaseRepository(db, categoriesCollection, timeout, logger)}
}

// CategoryIndexes are the indexes the categories collection needs
func CategoryIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_unique").SetUnique(true),
		},
	}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	doc := categoryToDocument(category)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.NewConflict("Category already exists")
		}
		r.logger.Error(ctx, "Failed to insert category", err, map[string]interface{}{"name": category.Name})
		return translateError(err, "", "failed to create category")
	}

	category.ID = doc.ID.Hex()
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	oid, err := parseID(id, "category")
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc categoryDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateError(err, "Category not found", "failed to find category")
	}
	return documentToCategory(&doc), nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translateError(err, "", "failed to list categories")
	}

	categories, err := decodeAll(ctx, cursor, func(d *categoryDoc) domain.Category { return *documentToCategory(d) })
	if err != nil {
		return nil, translateError(err, "", "failed to decode categories")
	}
	return categories, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "category")
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translateError(err, "", "failed to delete category")
	}
	if result.DeletedCount == 0 {
		return errors.NewNotFound("Category not found")
	}
	return nil
}

func categoryToDocument(c *domain.Category) *categoryDoc {
	doc := &categoryDoc{
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(c.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func documentToCategory(d *categoryDoc) *domain.Category {
	return &domain.Category{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
