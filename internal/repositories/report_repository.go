package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/novagram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportRepository defines the interface for content report operations.
// Reports are append-oriented and resolved in place.
type ReportRepository interface {
	CreateReport(ctx context.Context, report *models.Report) error
	GetReportByID(ctx context.Context, id string) (*models.Report, error)
	GetPendingReports(ctx context.Context, page, limit int) ([]models.Report, int64, error)
	Resolve(ctx context.Context, id string, status string, adminID uint, notes string) (int64, error)
	GetStats(ctx context.Context) (*models.ReportStats, error)
}

type mongoReportRepository struct {
	collection *mongo.Collection
}

// NewMongoReportRepository creates a report repository backed by MongoDB
func NewMongoReportRepository(db *mongo.Database) ReportRepository {
	return &mongoReportRepository{collection: db.Collection("reports")}
}

func (r *mongoReportRepository) CreateReport(ctx context.Context, report *models.Report) error {
	report.ID = primitive.NewObjectID()
	report.Status = models.ReportPending
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	_, err := r.collection.InsertOne(ctx, report)
	return err
}

func (r *mongoReportRepository) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid report ID format")
	}
	var report models.Report
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetPendingReports returns unhandled reports, oldest first so the queue
// drains in arrival order
func (r *mongoReportRepository) GetPendingReports(ctx context.Context, page, limit int) ([]models.Report, int64, error) {
	filter := bson.M{"status": models.ReportPending}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64((page - 1) * limit)
	opts := options.Find().SetSkip(skip).SetLimit(int64(limit)).SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var reports []models.Report
	if err = cursor.All(ctx, &reports); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// Resolve sets the report's terminal status and records handler identity and
// time. Returns the matched count; zero means the report does not exist.
func (r *mongoReportRepository) Resolve(ctx context.Context, id string, status string, adminID uint, notes string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("invalid report ID format")
	}
	now := time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{
			"status":     status,
			"handled_by": adminID,
			"handled_at": now,
			"notes":      notes,
			"updated_at": now,
		},
	})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// GetStats aggregates report counts by status and severity
func (r *mongoReportRepository) GetStats(ctx context.Context) (*models.ReportStats, error) {
	stats := &models.ReportStats{
		ByStatus:   make(map[string]int64),
		BySeverity: make(map[string]int64),
	}

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	stats.Total = total

	byStatus, err := r.groupCount(ctx, "$status")
	if err != nil {
		return nil, err
	}
	stats.ByStatus = byStatus

	bySeverity, err := r.groupCount(ctx, "$severity")
	if err != nil {
		return nil, err
	}
	stats.BySeverity = bySeverity

	return stats, nil
}

func (r *mongoReportRepository) groupCount(ctx context.Context, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make(map[string]int64)
	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row.Count
	}
	return result, nil
}
