package mongodb

import (
	"context"
	stderrors "errors"
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

type shippingAddressDoc struct {
	Name       string `bson:"name"`
	Email      string `bson:"email"`
	Phone      string `bson:"phone"`
	Country    string `bson:"country"`
	City       string `bson:"city"`
	PostalCode string `bson:"postalCode"`
}

type cartItemDoc struct {
	ID       string  `bson:"id"`
	Title    string  `bson:"title"`
	Price    float64 `bson:"price"`
	Quantity int     `bson:"quantity"`
	Image01  string  `bson:"image01,omitempty"`
}

type orderDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	User            primitive.ObjectID `bson:"user"`
	ShippingAddress shippingAddressDoc `bson:"shippingAddress"`
	CartItems       []cartItemDoc      `bson:"cartItems"`
	TotalAmount     float64            `bson:"totalAmount"`
	Status          string             `bson:"status"`
	CreatedAt       time.Time          `bson:"createdAt"`
}

// OrderRepository stores orders in the orders collection
type OrderRepository struct {
	baseRepository
}

var _ interfaces.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository creates an order repository
func NewOrderRepository(db *mongo.Database, timeout time.Duration, logger logging.Logger) *OrderRepository {
	return &OrderRepository{newBaseRepository(db, ordersCollection, timeout, logger)}
}

// OrderIndexes are the indexes the orders collection needs
func OrderIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("user_created_index"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_index"),
		},
	}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	doc, err := orderToDocument(order)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error(ctx, "Failed to insert order", err, map[string]interface{}{"user_id": order.UserID})
		return translateError(err, "", "failed to create order")
	}

	order.ID = doc.ID.Hex()
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := parseID(id, "order")
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc orderDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateError(err, "Order not found", "failed to find order")
	}
	return documentToOrder(&doc), nil
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	oid, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"user": oid}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	oid, err := parseID(id, "order")
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"_id": oid, "status": string(from)}
	update := bson.M{"$set": bson.M{"status": string(to)}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDoc
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return documentToOrder(&doc), nil
	}
	if !stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, translateError(err, "", "failed to update order status")
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, translateError(err, "", "failed to update order status")
	}
	if count == 0 {
		return nil, errors.NewNotFound("Order not found")
	}
	return nil, errors.NewConflict("Order status was changed concurrently")
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, translateError(err, "", "failed to list orders")
	}

	orders, err := decodeAll(ctx, cursor, func(d *orderDoc) domain.Order { return *documentToOrder(d) })
	if err != nil {
		return nil, translateError(err, "", "failed to decode orders")
	}
	return orders, nil
}

func orderToDocument(o *domain.Order) (*orderDoc, error) {
	user, err := parseID(o.UserID, "user")
	if err != nil {
		return nil, err
	}

	items := make([]cartItemDoc, 0, len(o.CartItems))
	for _, item := range o.CartItems {
		items = append(items, cartItemDoc{
			ID:       item.MenuItemID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
			Image01:  item.Image,
		})
	}

	doc := &orderDoc{
		User: user,
		ShippingAddress: shippingAddressDoc{
			Name:       o.ShippingAddress.Name,
			Email:      o.ShippingAddress.Email,
			Phone:      o.ShippingAddress.Phone,
			Country:    o.ShippingAddress.Country,
			City:       o.ShippingAddress.City,
			PostalCode: o.ShippingAddress.PostalCode,
		},
		CartItems:   items,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(o.ID); err == nil {
		doc.ID = oid
	}
	return doc, nil
}

func documentToOrder(d *orderDoc) *domain.Order {
	items := make([]domain.CartItem, 0, len(d.CartItems))
	for _, item := range d.CartItems {
		items = append(items, domain.CartItem{
			MenuItemID: item.ID,
			Title:      item.Title,
			Price:      item.Price,
			Quantity:   item.Quantity,
			Image:      item.Image01,
		})
	}

	var userID string
	if !d.User.IsZero() {
		userID = d.User.Hex()
	}

	return &domain.Order{
		ID:     d.ID.Hex(),
		UserID: userID,
		ShippingAddress: domain.ShippingAddress{
			Name:       d.ShippingAddress.Name,
			Email:      d.ShippingAddress.Email,
			Phone:      d.ShippingAddress.Phone,
			Country:    d.ShippingAddress.Country,
			City:       d.ShippingAddress.City,
			PostalCode: d.ShippingAddress.PostalCode,
		},
		CartItems:   items,
		TotalAmount: d.TotalAmount,
		Status:      domain.OrderStatus(d.Status),
		CreatedAt:   d.CreatedAt,
	}
}
