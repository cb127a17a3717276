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

type menuDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Category    primitive.ObjectID `bson:"category"`
	Price       float64            `bson:"price"`
	Image       string             `bson:"image,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type categoryCountDoc struct {
	ID    primitive.ObjectID `bson:"_id"`
	Count int64              `bson:"count"`
}

// MenuRepository stores menu items in the menus collection
type MenuRepository struct {
	baseRepository
}

var _ interfaces.MenuRepository = (*MenuRepository)(nil)

// NewMenuRepository creates a menu repository
func NewMenuRepository(db *mongo.Database, timeout time.Duration, logger logging.Logger) *MenuRepository {
	return &MenuRepository{newBaseRepository(db, menusCollection, timeout, logger)}
}

// MenuIndexes are the indexes the menus collection needs
func MenuIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category_index"),
		},
	}
}

func (r *MenuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	doc, err := menuItemToDocument(item)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error(ctx, "Failed to insert menu item", err, map[string]interface{}{"name": item.Name})
		return translateError(err, "", "failed to create menu item")
	}

	item.ID = doc.ID.Hex()
	return nil
}

func (r *MenuRepository) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	oid, err := parseID(id, "menu item")
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc menuDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateError(err, "Menu item not found", "failed to find menu item")
	}
	return documentToMenuItem(&doc), nil
}

func (r *MenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translateError(err, "", "failed to list menu items")
	}

	items, err := decodeAll(ctx, cursor, func(d *menuDoc) domain.MenuItem { return *documentToMenuItem(d) })
	if err != nil {
		return nil, translateError(err, "", "failed to decode menu items")
	}
	return items, nil
}

func (r *MenuRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	doc, err := menuItemToDocument(item)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return errors.NewValidation("Invalid menu item id")
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        doc.Name,
		"description": doc.Description,
		"category":    doc.Category,
		"price":       doc.Price,
		"image":       doc.Image,
		"updatedAt":   doc.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return translateError(err, "", "failed to update menu item")
	}
	if result.MatchedCount == 0 {
		return errors.NewNotFound("Menu item not found")
	}
	return nil
}

func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "menu item")
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translateError(err, "", "failed to delete menu item")
	}
	if result.DeletedCount == 0 {
		return errors.NewNotFound("Menu item not found")
	}
	return nil
}

func (r *MenuRepository) DeleteByCategory(ctx context.Context, categoryID string) (int64, error) {
	oid, err := parseID(categoryID, "category")
	if err != nil {
		return 0, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"category": oid})
	if err != nil {
		return 0, translateError(err, "", "failed to delete menu items of category")
	}
	return result.DeletedCount, nil
}

func (r *MenuRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateError(err, "", "failed to count menu items")
	}

	rows, err := decodeAll(ctx, cursor, func(d *categoryCountDoc) categoryCountDoc { return *d })
	if err != nil {
		return nil, translateError(err, "", "failed to decode menu item counts")
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID.Hex()] = row.Count
	}
	return counts, nil
}

func menuItemToDocument(m *domain.MenuItem) (*menuDoc, error) {
	category, err := parseID(m.CategoryID, "category")
	if err != nil {
		return nil, err
	}

	doc := &menuDoc{
		Name:        m.Name,
		Description: m.Description,
		Category:    category,
		Price:       m.Price,
		Image:       m.Image,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(m.ID); err == nil {
		doc.ID = oid
	}
	return doc, nil
}

func documentToMenuItem(d *menuDoc) *domain.MenuItem {
	return &domain.MenuItem{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		CategoryID:  d.Category.Hex(),
		Price:       d.Price,
		Image:       d.Image,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
