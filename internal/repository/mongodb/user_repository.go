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

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Role     string             `bson:"role"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	JoinDate time.Time          `bson:"joinDate"`
	Status   string             `bson:"status"`
}

// UserRepository stores accounts in the users collection
type UserRepository struct {
	baseRepository
}

var _ interfaces.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a user repository
func NewUserRepository(db *mongo.Database, timeout time.Duration, logger logging.Logger) *UserRepository {
	return &UserRepository{newBaseRepository(db, usersCollection, timeout, logger)}
}

// UserIndexes are the indexes the users collection needs
func UserIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("role_index"),
		},
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	doc := userToDocument(user)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.NewConflict("User already exists with this email")
		}
		r.logger.Error(ctx, "Failed to insert user", err)
		return translateError(err, "", "failed to create user")
	}

	user.ID = doc.ID.Hex()
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseID(id, "user")
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.find(ctx, bson.M{})
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	return r.find(ctx, bson.M{"role": string(role)})
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	oid, err := parseID(id, "user")
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": string(status)}}, opts).Decode(&doc)
	if err != nil {
		return nil, translateError(err, "User not found", "failed to update user status")
	}
	return documentToUser(&doc), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "user")
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translateError(err, "", "failed to delete user")
	}
	if result.DeletedCount == 0 {
		return errors.NewNotFound("User not found")
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc userDoc
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateError(err, "User not found", "failed to find user")
	}
	return documentToUser(&doc), nil
}

func (r *UserRepository) find(ctx context.Context, filter bson.M) ([]domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translateError(err, "", "failed to list users")
	}

	users, err := decodeAll(ctx, cursor, func(d *userDoc) domain.User { return *documentToUser(d) })
	if err != nil {
		return nil, translateError(err, "", "failed to decode users")
	}
	return users, nil
}

func userToDocument(u *domain.User) *userDoc {
	doc := &userDoc{
		Name:     u.Name,
		Role:     string(u.Role),
		Email:    u.Email,
		Password: u.PasswordHash,
		JoinDate: u.JoinDate,
		Status:   string(u.Status),
	}
	if oid, err := primitive.ObjectIDFromHex(u.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func documentToUser(d *userDoc) *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         domain.UserRole(d.Role),
		Status:       domain.UserStatus(d.Status),
		JoinDate:     d.JoinDate,
	}
}
