package repositories

import (
	"context"
	"time"

	"github.com/novagram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditRepository defines the interface for the append-only audit log.
// There is deliberately no update or delete operation.
type AuditRepository interface {
	Append(ctx context.Context, entry *models.AuditLogEntry) error
	Find(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, int64, error)
	GetStats(ctx context.Context) (*models.AuditStats, error)
}

type mongoAuditRepository struct {
	collection *mongo.Collection
}

// NewMongoAuditRepository creates an audit log repository backed by MongoDB
func NewMongoAuditRepository(db *mongo.Database) AuditRepository {
	return &mongoAuditRepository{collection: db.Collection("audit_logs")}
}

// Append inserts a new entry; existing entries are never touched
func (r *mongoAuditRepository) Append(ctx context.Context, entry *models.AuditLogEntry) error {
	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// Find reads entries matching the filter, newest first. Action matches as a
// substring; the date range is half-open on either side.
func (r *mongoAuditRepository) Find(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, int64, error) {
	query := bson.M{}
	if filter.AdminID != 0 {
		query["admin_id"] = filter.AdminID
	}
	if filter.Action != "" {
		query["action"] = bson.M{"$regex": primitive.Regex{Pattern: filter.Action}}
	}
	if filter.TargetType != "" {
		query["target_type"] = filter.TargetType
	}
	if filter.DateFrom != nil || filter.DateTo != nil {
		dateRange := bson.M{}
		if filter.DateFrom != nil {
			dateRange["$gte"] = *filter.DateFrom
		}
		if filter.DateTo != nil {
			dateRange["$lte"] = *filter.DateTo
		}
		query["created_at"] = dateRange
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	skip := int64((page - 1) * limit)

	opts := options.Find().SetSkip(skip).SetLimit(int64(limit)).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var entries []models.AuditLogEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// GetStats aggregates entry counts by action and by acting admin
func (r *mongoAuditRepository) GetStats(ctx context.Context) (*models.AuditStats, error) {
	stats := &models.AuditStats{
		ByAction: make(map[string]int64),
		ByAdmin:  make(map[uint]int64),
	}

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	stats.Total = total

	actionCursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$action", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer actionCursor.Close(ctx)
	var actionRows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err = actionCursor.All(ctx, &actionRows); err != nil {
		return nil, err
	}
	for _, row := range actionRows {
		stats.ByAction[row.ID] = row.Count
	}

	adminCursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$admin_id", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer adminCursor.Close(ctx)
	var adminRows []struct {
		ID    uint  `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err = adminCursor.All(ctx, &adminRows); err != nil {
		return nil, err
	}
	for _, row := range adminRows {
		stats.ByAdmin[row.ID] = row.Count
	}

	return stats, nil
}
