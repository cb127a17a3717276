package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
)

const testTimeout = 2 * time.Second

func TestOrderDocumentConversion(t *testing.T) {
	created := time.Date(2024, time.February, 3, 10, 0, 0, 0, time.UTC)
	order := &domain.Order{
		ID:     primitive.NewObjectID().Hex(),
		UserID: primitive.NewObjectID().Hex(),
		ShippingAddress: domain.ShippingAddress{
			Name: "Asha", Email: "asha@example.com", Phone: "1", Country: "IN", City: "Pune", PostalCode: "411001",
		},
		CartItems:   []domain.CartItem{{MenuItemID: "m1", Title: "Margherita", Price: 250, Quantity: 2, Image: "a.png"}},
		TotalAmount: 500,
		Status:      domain.StatusPreparing,
		CreatedAt:   created,
	}

	doc, err := orderToDocument(order)
	require.NoError(t, err)
	assert.Equal(t, "m1", doc.CartItems[0].ID)
	assert.Equal(t, "a.png", doc.CartItems[0].Image01)
	assert.Equal(t, "Preparing", doc.Status)

	assert.Equal(t, order, documentToOrder(doc))

	t.Run("Invalid user id", func(t *testing.T) {
		_, err := orderToDocument(&domain.Order{UserID: "nope"})
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("Missing user", func(t *testing.T) {
		got := documentToOrder(&orderDoc{ID: primitive.NewObjectID()})
		assert.Equal(t, "", got.UserID)
	})
}

func TestMenuAndUserDocumentConversion(t *testing.T) {
	item := &domain.MenuItem{
		ID:         primitive.NewObjectID().Hex(),
		Name:       "Lassi",
		CategoryID: primitive.NewObjectID().Hex(),
		Price:      80,
	}
	doc, err := menuItemToDocument(item)
	require.NoError(t, err)
	assert.Equal(t, item, documentToMenuItem(doc))

	_, err = menuItemToDocument(&domain.MenuItem{CategoryID: "bad"})
	assert.True(t, errors.IsValidation(err))

	user := &domain.User{
		ID:           primitive.NewObjectID().Hex(),
		Name:         "Ravi",
		Email:        "ravi@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleCustomer,
		Status:       domain.UserStatusInactive,
	}
	assert.Equal(t, user, documentToUser(userToDocument(user)))
}

func TestCategoryRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	logger := logging.NewNoOpLogger()

	mt.Run("Create", func(mt *mtest.T) {
		repo := NewCategoryRepository(mt.DB, testTimeout, logger)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		category := &domain.Category{Name: "Pizza"}
		require.NoError(mt, repo.Create(context.Background(), category))
		assert.Len(mt, category.ID, 24)
	})

	mt.Run("Create duplicate", func(mt *mtest.T) {
		repo := NewCategoryRepository(mt.DB, testTimeout, logger)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), &domain.Category{Name: "Pizza"})
		assert.True(mt, errors.IsConflict(err))
		assert.Equal(mt, "Category already exists", err.Error())
	})

	mt.Run("List", func(mt *mtest.T) {
		repo := NewCategoryRepository(mt.DB, testTimeout, logger)
		id1, id2 := primitive.NewObjectID(), primitive.NewObjectID()
		ns := "db.categories"
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: id1}, {Key: "name", Value: "Pizza"}},
				bson.D{{Key: "_id", Value: id2}, {Key: "name", Value: "Drinks"}},
			),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
		)

		categories, err := repo.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, categories, 2)
		assert.Equal(mt, id1.Hex(), categories[0].ID)
		assert.Equal(mt, "Drinks", categories[1].Name)
	})

	mt.Run("GetByID not found", func(mt *mtest.T) {
		repo := NewCategoryRepository(mt.DB, testTimeout, logger)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.categories", mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, errors.IsNotFound(err))
	})

	mt.Run("Delete missing", func(mt *mtest.T) {
		repo := NewCategoryRepository(mt.DB, testTimeout, logger)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, errors.IsNotFound(err))
	})

	mt.Run("Invalid id", func(mt *mtest.T) {
		repo := NewCategoryRepository(mt.DB, testTimeout, logger)
		_, err := repo.GetByID(context.Background(), "xyz")
		assert.True(mt, errors.IsValidation(err))
	})
}

func TestMenuRepositoryCountByCategory(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Counts", func(mt *mtest.T) {
		repo := NewMenuRepository(mt.DB, testTimeout, logging.NewNoOpLogger())
		c1, c2 := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.menus", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: c1}, {Key: "count", Value: int64(3)}},
			bson.D{{Key: "_id", Value: c2}, {Key: "count", Value: int64(1)}},
		))

		counts, err := repo.CountByCategory(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, map[string]int64{c1.Hex(): 3, c2.Hex(): 1}, counts)
	})
}

func TestOrderRepositoryUpdateStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	logger := logging.NewNoOpLogger()

	mt.Run("Updated", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, testTimeout, logger)
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{{Key: "_id", Value: id}, {Key: "status", Value: "Preparing"}}},
		})

		order, err := repo.UpdateStatus(context.Background(), id.Hex(), domain.StatusPending, domain.StatusPreparing)
		require.NoError(mt, err)
		assert.Equal(mt, domain.StatusPreparing, order.Status)
		assert.Equal(mt, id.Hex(), order.ID)
	})

	mt.Run("Changed concurrently", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, testTimeout, logger)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCursorResponse(0, "db.orders", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		_, err := repo.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), domain.StatusPending, domain.StatusPreparing)
		assert.True(mt, errors.IsConflict(err))
	})

	mt.Run("Missing", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, testTimeout, logger)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCursorResponse(0, "db.orders", mtest.FirstBatch),
		)

		_, err := repo.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), domain.StatusPending, domain.StatusPreparing)
		assert.True(mt, errors.IsNotFound(err))
	})
}
