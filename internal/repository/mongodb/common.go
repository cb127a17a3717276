package mongodb

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
)

// Collection names match the documents written by the storefront
const (
	categoriesCollection = "categories"
	menusCollection      = "menus"
	ordersCollection     = "orders"
	usersCollection      = "users"
)

type baseRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
	logger     logging.Logger
}

func newBaseRepository(db *mongo.Database, name string, timeout time.Duration, logger logging.Logger) baseRepository {
	return baseRepository{
		collection: db.Collection(name),
		timeout:    timeout,
		logger:     logger.With(map[string]interface{}{"collection": name}),
	}
}

func (r *baseRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// parseID converts a hex string into an ObjectID
func parseID(id, entity string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.NewValidation("Invalid " + entity + " id")
	}
	return oid, nil
}

// translateError maps driver errors onto typed application errors
func translateError(err error, notFound, message string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, mongo.ErrNoDocuments):
		return errors.NewNotFound(notFound)
	case mongo.IsDuplicateKeyError(err):
		return errors.WrapAs(err, errors.ErrorTypeConflict, message)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return errors.WrapAs(err, errors.ErrorTypeExternal, message)
	default:
		return errors.Wrap(err, message)
	}
}

// decodeAll drains a cursor, converting each document
func decodeAll[D any, T any](ctx context.Context, cursor *mongo.Cursor, convert func(*D) T) ([]T, error) {
	defer cursor.Close(ctx)

	result := make([]T, 0)
	for cursor.Next(ctx) {
		var doc D
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, convert(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
