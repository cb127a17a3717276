package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
)

func setupOrders(t *testing.T) (*OrderService, *repos) {
	r := newRepos()
	return NewOrderService(r.orders, r.users, r.publisher, NoOpObservability()), r
}

func orderInput(userID string) domain.CreateOrderInput {
	return domain.CreateOrderInput{
		UserID: userID,
		ShippingAddress: domain.ShippingAddress{
			Name: "Asha", Email: "asha@example.com", Phone: "9999999999", Country: "IN", City: "Pune", PostalCode: "411001",
		},
		CartItems:   []domain.CartItem{{MenuItemID: "m1", Title: "Margherita", Price: 250, Quantity: 2}},
		TotalAmount: 500,
	}
}

func TestOrderCreate(t *testing.T) {
	orders, r := setupOrders(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		order, err := orders.Create(ctx, orderInput("u1"))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, order.Status)
		assert.Contains(t, r.orders.store, order.ID)

		require.Len(t, r.publisher.events, 1)
		assert.Equal(t, "created", r.publisher.events[0].kind)
		assert.Equal(t, order.ID, r.publisher.events[0].order.ID)
	})

	t.Run("Publish failure does not fail the order", func(t *testing.T) {
		r.publisher.err = stderrors.New("broker down")
		defer func() { r.publisher.err = nil }()

		order, err := orders.Create(ctx, orderInput("u1"))
		require.NoError(t, err)
		assert.Contains(t, r.orders.store, order.ID)
	})

	t.Run("Invalid input", func(t *testing.T) {
		in := orderInput("u1")
		in.CartItems = nil
		_, err := orders.Create(ctx, in)
		assert.True(t, errors.IsValidation(err))
	})
}

func TestOrderList(t *testing.T) {
	orders, r := setupOrders(t)
	ctx := context.Background()

	customer := &domain.User{Name: "Asha", Email: "asha@example.com", Role: domain.RoleCustomer}
	require.NoError(t, r.users.Create(ctx, customer))

	first, err := orders.Create(ctx, orderInput(customer.ID))
	require.NoError(t, err)
	_, err = orders.Create(ctx, orderInput("deleted-user"))
	require.NoError(t, err)

	t.Run("Joined with customer", func(t *testing.T) {
		views, err := orders.List(ctx)
		require.NoError(t, err)
		require.Len(t, views, 2)
		require.NotNil(t, views[0].User)
		assert.Equal(t, "Asha", views[0].User.Name)
		assert.Nil(t, views[1].User)
	})

	t.Run("By user newest first", func(t *testing.T) {
		r.orders.store[first.ID].CreatedAt = time.Now().Add(-time.Hour)
		second, err := orders.Create(ctx, orderInput(customer.ID))
		require.NoError(t, err)

		list, err := orders.ListByUser(ctx, customer.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)
	})
}

func TestOrderUpdateStatus(t *testing.T) {
	orders, r := setupOrders(t)
	ctx := context.Background()

	order, err := orders.Create(ctx, orderInput("u1"))
	require.NoError(t, err)
	r.publisher.events = nil

	t.Run("Invalid status value", func(t *testing.T) {
		_, err := orders.UpdateStatus(ctx, order.ID, "Shipped")
		assert.True(t, errors.IsValidation(err))
		assert.Equal(t, "Invalid status value", err.Error())
	})

	t.Run("Skipping a step is rejected without mutation", func(t *testing.T) {
		_, err := orders.UpdateStatus(ctx, order.ID, "Completed")
		assert.True(t, errors.IsValidation(err))
		assert.Equal(t, domain.StatusPending, r.orders.store[order.ID].Status)
		assert.Empty(t, r.publisher.events)
	})

	t.Run("Success", func(t *testing.T) {
		updated, err := orders.UpdateStatus(ctx, order.ID, "Preparing")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPreparing, updated.Status)

		require.Len(t, r.publisher.events, 1)
		assert.Equal(t, "status_changed", r.publisher.events[0].kind)
		assert.Equal(t, domain.StatusPending, r.publisher.events[0].previous)
	})

	t.Run("Concurrent change is a conflict", func(t *testing.T) {
		r.orders.beforeUpdate = func(o *domain.Order) { o.Status = domain.StatusCancelled }
		defer func() { r.orders.beforeUpdate = nil }()

		_, err := orders.UpdateStatus(ctx, order.ID, "Completed")
		assert.True(t, errors.IsConflict(err))
		assert.Equal(t, domain.StatusCancelled, r.orders.store[order.ID].Status)
	})

	t.Run("Terminal status", func(t *testing.T) {
		_, err := orders.UpdateStatus(ctx, order.ID, "Preparing")
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("Missing order", func(t *testing.T) {
		_, err := orders.UpdateStatus(ctx, "000000000000000000000099", "Preparing")
		assert.True(t, errors.IsNotFound(err))
	})
}
