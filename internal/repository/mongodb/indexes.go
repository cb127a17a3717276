package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/amiosamu/restaurant-admin/shared/platform/database/mongodb"
)

// EnsureIndexes creates the indexes of every collection. The unique indexes
// on category names and user emails back the conflict errors of Create.
func EnsureIndexes(ctx context.Context, conn *mongodb.Connection) error {
	indexes := map[string][]mongo.IndexModel{
		categoriesCollection: CategoryIndexes(),
		menusCollection:      MenuIndexes(),
		ordersCollection:     OrderIndexes(),
		usersCollection:      UserIndexes(),
	}

	for collection, models := range indexes {
		if err := conn.CreateIndexes(ctx, collection, models); err != nil {
			return err
		}
	}
	return nil
}
