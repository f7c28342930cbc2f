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

const itemsCollectionName = "items"

type ItemMongoRepository struct {
	db *mongo.Database
}

func NewItemMongoRepository(client *mongo.Client, dbName string) *ItemMongoRepository {
	return &ItemMongoRepository{
		db: client.Database(dbName),
	}
}

type swapRequestDocument struct {
	ID              string             `bson:"id"`
	Requester       string             `bson:"requester"`
	Message         string             `bson:"message,omitempty"`
	Status          string             `bson:"status"`
	ResponseMessage string             `bson:"response_message,omitempty"`
	CreatedAt       primitive.DateTime `bson:"created_at"`
}

type itemDocument struct {
	ID              primitive.ObjectID    `bson:"_id,omitempty"`
	Title           string                `bson:"title"`
	Description     string                `bson:"description"`
	Category        string                `bson:"category"`
	Size            string                `bson:"size"`
	Condition       string                `bson:"condition"`
	Brand           string                `bson:"brand"`
	Color           string                `bson:"color"`
	Material        string                `bson:"material"`
	Images          []string              `bson:"images"`
	Tags            []string              `bson:"tags"`
	Uploader        string                `bson:"uploader"`
	Status          string                `bson:"status"`
	RejectionReason string                `bson:"rejection_reason"`
	IsFeatured      bool                  `bson:"is_featured"`
	FeaturedUntil   *primitive.DateTime   `bson:"featured_until,omitempty"`
	Likes           []string              `bson:"likes"`
	SwapRequests    []swapRequestDocument `bson:"swap_requests"`
	Location        string                `bson:"location"`
	EstimatedValue  float64               `bson:"estimated_value"`
	IsAvailable     bool                  `bson:"is_available"`
	CreatedAt       primitive.DateTime    `bson:"created_at"`
	UpdatedAt       primitive.DateTime    `bson:"updated_at"`
}

func toItemDocument(i *entity.Item) (*itemDocument, error) {
	doc := &itemDocument{
		Title:           i.Title,
		Description:     i.Description,
		Category:        i.Category,
		Size:            i.Size,
		Condition:       i.Condition,
		Brand:           i.Brand,
		Color:           i.Color,
		Material:        i.Material,
		Images:          i.Images,
		Tags:            i.Tags,
		Uploader:        i.UploaderID,
		Status:          string(i.Status),
		RejectionReason: i.RejectionReason,
		IsFeatured:      i.IsFeatured,
		Likes:           i.Likes,
		Location:        i.Location,
		EstimatedValue:  i.EstimatedValue,
		IsAvailable:     i.IsAvailable,
		CreatedAt:       primitive.NewDateTimeFromTime(i.CreatedAt),
		UpdatedAt:       primitive.NewDateTimeFromTime(i.UpdatedAt),
	}
	if i.FeaturedUntil != nil {
		fu := primitive.NewDateTimeFromTime(*i.FeaturedUntil)
		doc.FeaturedUntil = &fu
	}
	doc.SwapRequests = make([]swapRequestDocument, len(i.SwapRequests))
	for idx, r := range i.SwapRequests {
		doc.SwapRequests[idx] = toSwapRequestDocument(&r)
	}
	if i.ID != "" {
		objID, err := primitive.ObjectIDFromHex(i.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid item ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toSwapRequestDocument(r *entity.SwapRequest) swapRequestDocument {
	return swapRequestDocument{
		ID:              r.ID,
		Requester:       r.RequesterID,
		Message:         r.Message,
		Status:          string(r.Status),
		ResponseMessage: r.ResponseMessage,
		CreatedAt:       primitive.NewDateTimeFromTime(r.CreatedAt),
	}
}

func toItemEntity(doc *itemDocument) *entity.Item {
	item := &entity.Item{
		ID:              doc.ID.Hex(),
		Title:           doc.Title,
		Description:     doc.Description,
		Category:        doc.Category,
		Size:            doc.Size,
		Condition:       doc.Condition,
		Brand:           doc.Brand,
		Color:           doc.Color,
		Material:        doc.Material,
		Images:          doc.Images,
		Tags:            doc.Tags,
		UploaderID:      doc.Uploader,
		Status:          entity.ItemStatus(doc.Status),
		RejectionReason: doc.RejectionReason,
		IsFeatured:      doc.IsFeatured,
		Likes:           doc.Likes,
		Location:        doc.Location,
		EstimatedValue:  doc.EstimatedValue,
		IsAvailable:     doc.IsAvailable,
		CreatedAt:       doc.CreatedAt.Time(),
		UpdatedAt:       doc.UpdatedAt.Time(),
	}
	if doc.FeaturedUntil != nil {
		fu := doc.FeaturedUntil.Time()
		item.FeaturedUntil = &fu
	}
	if item.Likes == nil {
		item.Likes = []string{}
	}
	item.SwapRequests = make([]entity.SwapRequest, len(doc.SwapRequests))
	for idx, r := range doc.SwapRequests {
		item.SwapRequests[idx] = entity.SwapRequest{
			ID:              r.ID,
			RequesterID:     r.Requester,
			Message:         r.Message,
			Status:          entity.SwapRequestStatus(r.Status),
			ResponseMessage: r.ResponseMessage,
			CreatedAt:       r.CreatedAt.Time(),
		}
	}
	return item
}

// EnsureIndexes creates the text index backing free-text search across
// title, description, brand and tags.
func (r *ItemMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(itemsCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "brand", Value: "text"},
				{Key: "tags", Value: "text"},
			},
		},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "is_available", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "uploader", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create item indexes: %w", err)
	}
	return nil
}

func (r *ItemMongoRepository) Create(ctx context.Context, item *entity.Item) (string, error) {
	doc, err := toItemDocument(item)
	if err != nil {
		return "", err
	}

	res, err := r.db.Collection(itemsCollectionName).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create item in mongo: %w", err)
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *ItemMongoRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc itemDocument
	err = r.db.Collection(itemsCollectionName).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item by id from mongo: %w", err)
	}
	return toItemEntity(&doc), nil
}

// Update writes the descriptive fields only. Likes, swap requests and
// moderation state have their own targeted mutations.
func (r *ItemMongoRepository) Update(ctx context.Context, item *entity.Item) error {
	doc, err := toItemDocument(item)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("item ID is required for update")
	}

	updateFields := bson.M{
		"$set": bson.M{
			"title":           doc.Title,
			"description":     doc.Description,
			"category":        doc.Category,
			"size":            doc.Size,
			"condition":       doc.Condition,
			"brand":           doc.Brand,
			"color":           doc.Color,
			"material":        doc.Material,
			"images":          doc.Images,
			"tags":            doc.Tags,
			"location":        doc.Location,
			"estimated_value": doc.EstimatedValue,
			"updated_at":      doc.UpdatedAt,
		},
	}

	res, err := r.db.Collection(itemsCollectionName).UpdateOne(ctx, bson.M{"_id": doc.ID}, updateFields)
	if err != nil {
		return fmt.Errorf("failed to update item in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ItemMongoRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.db.Collection(itemsCollectionName).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete item from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func buildMongoFilter(filter repository.ItemFilter) bson.M {
	mongoFilter := bson.M{}
	if filter.Status != "" {
		mongoFilter["status"] = string(filter.Status)
	}
	if filter.OnlyAvailable {
		mongoFilter["is_available"] = true
	}
	if filter.Category != "" {
		mongoFilter["category"] = filter.Category
	}
	if filter.Size != "" {
		mongoFilter["size"] = filter.Size
	}
	if filter.Condition != "" {
		mongoFilter["condition"] = filter.Condition
	}
	if filter.UploaderID != "" {
		mongoFilter["uploader"] = filter.UploaderID
	}
	if filter.Search != "" {
		mongoFilter["$text"] = bson.M{"$search": filter.Search}
	}
	return mongoFilter
}

// List pages through items matching the filter. A pageSize of 0 returns
// everything (used by the admin pending queue).
func (r *ItemMongoRepository) List(ctx context.Context, filter repository.ItemFilter, page, pageSize int) ([]*entity.Item, int, error) {
	sortOrder := -1
	if filter.SortOrder == "asc" {
		sortOrder = 1
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: sortOrder}})
	if pageSize > 0 {
		findOptions.SetSkip(int64((page - 1) * pageSize))
		findOptions.SetLimit(int64(pageSize))
	}

	mongoFilter := buildMongoFilter(filter)

	cursor, err := r.db.Collection(itemsCollectionName).Find(ctx, mongoFilter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []itemDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode item list from mongo: %w", err)
	}

	items := make([]*entity.Item, len(docs))
	for i, doc := range docs {
		items[i] = toItemEntity(&doc)
	}

	totalCount, err := r.db.Collection(itemsCollectionName).CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count items in mongo: %w", err)
	}

	return items, int(totalCount), nil
}

func (r *ItemMongoRepository) ListFeatured(ctx context.Context, now time.Time, limit int) ([]*entity.Item, error) {
	mongoFilter := bson.M{
		"is_featured":  true,
		"status":       string(entity.StatusApproved),
		"is_available": true,
		"$or": bson.A{
			bson.M{"featured_until": bson.M{"$gt": primitive.NewDateTimeFromTime(now)}},
			bson.M{"featured_until": bson.M{"$exists": false}},
			bson.M{"featured_until": nil},
		},
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})
	findOptions.SetLimit(int64(limit))

	cursor, err := r.db.Collection(itemsCollectionName).Find(ctx, mongoFilter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured items from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []itemDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode featured item list from mongo: %w", err)
	}

	items := make([]*entity.Item, len(docs))
	for i, doc := range docs {
		items[i] = toItemEntity(&doc)
	}
	return items, nil
}

func (r *ItemMongoRepository) Count(ctx context.Context, filter repository.ItemFilter) (int, error) {
	count, err := r.db.Collection(itemsCollectionName).CountDocuments(ctx, buildMongoFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count items in mongo: %w", err)
	}
	return int(count), nil
}

// SetLike applies the membership flip as a single $addToSet or $pull, so
// two racing likes from different users both survive.
func (r *ItemMongoRepository) SetLike(ctx context.Context, itemID, userID string, liked bool) error {
	objID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return repository.ErrNotFound
	}

	var update bson.M
	if liked {
		update = bson.M{"$addToSet": bson.M{"likes": userID}}
	} else {
		update = bson.M{"$pull": bson.M{"likes": userID}}
	}

	res, err := r.db.Collection(itemsCollectionName).UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update like set in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddSwapRequest pushes the request only when the requester has no pending
// request embedded in the item, closing the duplicate race at the document
// level.
func (r *ItemMongoRepository) AddSwapRequest(ctx context.Context, itemID string, req *entity.SwapRequest) error {
	objID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return repository.ErrNotFound
	}

	filter := bson.M{
		"_id": objID,
		"swap_requests": bson.M{
			"$not": bson.M{
				"$elemMatch": bson.M{
					"requester": req.RequesterID,
					"status":    string(entity.SwapPending),
				},
			},
		},
	}
	update := bson.M{"$push": bson.M{"swap_requests": toSwapRequestDocument(req)}}

	res, err := r.db.Collection(itemsCollectionName).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add swap request in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		count, countErr := r.db.Collection(itemsCollectionName).CountDocuments(ctx, bson.M{"_id": objID})
		if countErr != nil {
			return fmt.Errorf("failed to classify rejected swap request push: %w", countErr)
		}
		if count == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrDuplicate
	}
	return nil
}

func (r *ItemMongoRepository) UpdateSwapRequest(ctx context.Context, itemID, requestID string, status entity.SwapRequestStatus, responseMessage string) error {
	objID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return repository.ErrNotFound
	}

	set := bson.M{"swap_requests.$[req].status": string(status)}
	if responseMessage != "" {
		set["swap_requests.$[req].response_message"] = responseMessage
	}

	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"req.id": requestID}},
	})

	res, err := r.db.Collection(itemsCollectionName).UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts)
	if err != nil {
		return fmt.Errorf("failed to update swap request in mongo: %w", err)
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ItemMongoRepository) FindByRequester(ctx context.Context, requesterID string) ([]*entity.Item, error) {
	filter := bson.M{"swap_requests.requester": requesterID}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(itemsCollectionName).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find items by requester from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []itemDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode items by requester from mongo: %w", err)
	}

	items := make([]*entity.Item, len(docs))
	for i, doc := range docs {
		items[i] = toItemEntity(&doc)
	}
	return items, nil
}

func (r *ItemMongoRepository) FindWithRequestsByUploader(ctx context.Context, uploaderID string) ([]*entity.Item, error) {
	filter := bson.M{
		"uploader":        uploaderID,
		"swap_requests.0": bson.M{"$exists": true},
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(itemsCollectionName).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find items with requests by uploader from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []itemDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode items with requests from mongo: %w", err)
	}

	items := make([]*entity.Item, len(docs))
	for i, doc := range docs {
		items[i] = toItemEntity(&doc)
	}
	return items, nil
}

func (r *ItemMongoRepository) SetStatus(ctx context.Context, itemID string, status entity.ItemStatus, rejectionReason string) error {
	objID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return repository.ErrNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"status":           string(status),
			"rejection_reason": rejectionReason,
			"updated_at":       primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	res, err := r.db.Collection(itemsCollectionName).UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to set item status in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ItemMongoRepository) SetFeatured(ctx context.Context, itemID string, isFeatured bool, featuredUntil *time.Time) error {
	objID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return repository.ErrNotFound
	}

	set := bson.M{
		"is_featured": isFeatured,
		"updated_at":  primitive.NewDateTimeFromTime(time.Now()),
	}
	update := bson.M{"$set": set}
	if featuredUntil != nil {
		set["featured_until"] = primitive.NewDateTimeFromTime(*featuredUntil)
	} else {
		update["$unset"] = bson.M{"featured_until": ""}
	}

	res, err := r.db.Collection(itemsCollectionName).UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to set item featured flag in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkSwapped only matches approved items so a racing moderation change
// cannot be overwritten.
func (r *ItemMongoRepository) MarkSwapped(ctx context.Context, itemID string) error {
	objID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return repository.ErrNotFound
	}

	filter := bson.M{"_id": objID, "status": string(entity.StatusApproved)}
	update := bson.M{
		"$set": bson.M{
			"status":       string(entity.StatusSwapped),
			"is_available": false,
			"updated_at":   primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	res, err := r.db.Collection(itemsCollectionName).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark item swapped in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ItemMongoRepository) UploaderStats(ctx context.Context, uploaderID string) (total, approved, pending, likes int, err error) {
	coll := r.db.Collection(itemsCollectionName)

	totalCount, err := coll.CountDocuments(ctx, bson.M{"uploader": uploaderID})
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to count uploader items in mongo: %w", err)
	}
	approvedCount, err := coll.CountDocuments(ctx, bson.M{"uploader": uploaderID, "status": string(entity.StatusApproved)})
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to count approved uploader items in mongo: %w", err)
	}
	pendingCount, err := coll.CountDocuments(ctx, bson.M{"uploader": uploaderID, "status": string(entity.StatusPending)})
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to count pending uploader items in mongo: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"uploader": uploaderID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"total_likes": bson.M{"$sum": bson.M{"$size": "$likes"}},
		}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to aggregate uploader likes in mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalLikes int `bson:"total_likes"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to decode uploader like aggregate: %w", err)
	}
	totalLikes := 0
	if len(results) > 0 {
		totalLikes = results[0].TotalLikes
	}

	return int(totalCount), int(approvedCount), int(pendingCount), totalLikes, nil
}
