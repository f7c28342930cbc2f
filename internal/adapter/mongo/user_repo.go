package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollectionName = "users"

type UserMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(client *mongo.Client, dbName string) *UserMongoRepository {
	return &UserMongoRepository{
		db: client.Database(dbName),
	}
}

type userStatsDocument struct {
	ItemsUploaded   int `bson:"items_uploaded"`
	SuccessfulSwaps int `bson:"successful_swaps"`
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Avatar    string             `bson:"avatar,omitempty"`
	Bio       string             `bson:"bio,omitempty"`
	Role      string             `bson:"role"`
	IsBanned  bool               `bson:"is_banned"`
	BanReason string             `bson:"ban_reason,omitempty"`
	Stats     userStatsDocument  `bson:"stats"`
	CreatedAt primitive.DateTime `bson:"created_at"`
	UpdatedAt primitive.DateTime `bson:"updated_at"`
}

func toUserDocument(u *entity.User) (*userDocument, error) {
	doc := &userDocument{
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		Role:      u.Role,
		IsBanned:  u.IsBanned,
		BanReason: u.BanReason,
		Stats: userStatsDocument{
			ItemsUploaded:   u.Stats.ItemsUploaded,
			SuccessfulSwaps: u.Stats.SuccessfulSwaps,
		},
		CreatedAt: primitive.NewDateTimeFromTime(u.CreatedAt),
		UpdatedAt: primitive.NewDateTimeFromTime(u.UpdatedAt),
	}
	if u.ID != "" {
		objID, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toUserEntity(doc *userDocument) *entity.User {
	return &entity.User{
		ID:        doc.ID.Hex(),
		Name:      doc.Name,
		Email:     doc.Email,
		Password:  doc.Password,
		Avatar:    doc.Avatar,
		Bio:       doc.Bio,
		Role:      doc.Role,
		IsBanned:  doc.IsBanned,
		BanReason: doc.BanReason,
		Stats: entity.UserStats{
			ItemsUploaded:   doc.Stats.ItemsUploaded,
			SuccessfulSwaps: doc.Stats.SuccessfulSwaps,
		},
		CreatedAt: doc.CreatedAt.Time(),
		UpdatedAt: doc.UpdatedAt.Time(),
	}
}

func (r *UserMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(usersCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (r *UserMongoRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	doc, err := toUserDocument(user)
	if err != nil {
		return "", err
	}

	res, err := r.db.Collection(usersCollectionName).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrDuplicate
		}
		return "", fmt.Errorf("failed to create user in mongo: %w", err)
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *UserMongoRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc userDocument
	err = r.db.Collection(usersCollectionName).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id from mongo: %w", err)
	}
	return toUserEntity(&doc), nil
}

func (r *UserMongoRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var doc userDocument
	err := r.db.Collection(usersCollectionName).FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email from mongo: %w", err)
	}
	return toUserEntity(&doc), nil
}

func (r *UserMongoRepository) List(ctx context.Context, search, role string, page, pageSize int) ([]*entity.User, int, error) {
	mongoFilter := bson.M{}
	if search != "" {
		mongoFilter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": search, "$options": "i"}},
		}
	}
	if role != "" {
		mongoFilter["role"] = role
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})
	findOptions.SetSkip(int64((page - 1) * pageSize))
	findOptions.SetLimit(int64(pageSize))

	cursor, err := r.db.Collection(usersCollectionName).Find(ctx, mongoFilter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode user list from mongo: %w", err)
	}

	users := make([]*entity.User, len(docs))
	for i, doc := range docs {
		users[i] = toUserEntity(&doc)
	}

	totalCount, err := r.db.Collection(usersCollectionName).CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users in mongo: %w", err)
	}

	return users, int(totalCount), nil
}

func (r *UserMongoRepository) Count(ctx context.Context) (int, error) {
	count, err := r.db.Collection(usersCollectionName).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users in mongo: %w", err)
	}
	return int(count), nil
}

func (r *UserMongoRepository) SetRole(ctx context.Context, id, role string) error {
	return r.setFields(ctx, id, bson.M{"role": role})
}

func (r *UserMongoRepository) SetBan(ctx context.Context, id string, banned bool, reason string) error {
	if !banned {
		reason = ""
	}
	return r.setFields(ctx, id, bson.M{"is_banned": banned, "ban_reason": reason})
}

func (r *UserMongoRepository) setFields(ctx context.Context, id string, fields bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	fields["updated_at"] = primitive.NewDateTimeFromTime(time.Now())

	res, err := r.db.Collection(usersCollectionName).UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update user in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserMongoRepository) IncrementItemsUploaded(ctx context.Context, id string) error {
	return r.increment(ctx, id, "stats.items_uploaded")
}

func (r *UserMongoRepository) IncrementSuccessfulSwaps(ctx context.Context, id string) error {
	return r.increment(ctx, id, "stats.successful_swaps")
}

func (r *UserMongoRepository) increment(ctx context.Context, id, field string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.db.Collection(usersCollectionName).UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{field: 1}})
	if err != nil {
		return fmt.Errorf("failed to increment %s in mongo: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
