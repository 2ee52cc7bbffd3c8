package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identitykit/account-service/internal/core/domain"
)

const userCollection = "users"

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID               string   `bson:"_id"`
	Email            string   `bson:"email"`
	Name             string   `bson:"name"`
	PasswordHash     string   `bson:"password_hash"`
	Roles            []string `bson:"roles"`
	VerificationCode string   `bson:"verification_code,omitempty"`
	Version          int64    `bson:"version"`
	CreatedAt        int64    `bson:"created_at"`
	UpdatedAt        int64    `bson:"updated_at"`
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomain(&mu), nil
}

// UpdateVersioned performs the optimistic-concurrency write: a single
// conditional update matching both id and expected version, incrementing
// the version in the same operation. A matched-count of zero on a record
// that was read moments ago means a concurrent writer won the version.
func (r *MongoUserRepository) UpdateVersioned(ctx context.Context, u *domain.User, expectedVersion int64) error {
	roles := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		roles[i] = string(role)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": u.ID, "version": expectedVersion},
		bson.M{
			"$set": bson.M{
				"name":              u.Name,
				"roles":             roles,
				"verification_code": u.VerificationCode,
				"updated_at":        u.UpdatedAt.Unix(),
			},
			"$inc": bson.M{"version": int64(1)},
		},
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVersionConflict
	}

	u.Version = expectedVersion + 1
	return nil
}

func toDomain(mu *mongoUser) *domain.User {
	roles := make([]domain.Role, len(mu.Roles))
	for i, r := range mu.Roles {
		roles[i] = domain.Role(r)
	}
	return &domain.User{
		ID:               mu.ID,
		Email:            mu.Email,
		Name:             mu.Name,
		PasswordHash:     mu.PasswordHash,
		Roles:            roles,
		VerificationCode: mu.VerificationCode,
		Version:          mu.Version,
		CreatedAt:        unixToTime(mu.CreatedAt),
		UpdatedAt:        unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
