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

// StoryRepository defines the interface for story operations
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetStoryByID(ctx context.Context, id string) (*models.Story, error)
	GetActiveByUserIDs(ctx context.Context, userIDs []string) ([]models.Story, error)
	GetAllByUserID(ctx context.Context, userID string) ([]models.Story, error)
	AddViewer(ctx context.Context, storyID string, userID string) error
	DeleteStory(ctx context.Context, id string) error
	DeleteExpiredStories(ctx context.Context) (int64, error)
}

type mongoStoryRepository struct {
	collection *mongo.Collection
}

// NewMongoStoryRepository creates a story repository backed by MongoDB
func NewMongoStoryRepository(db *mongo.Database) StoryRepository {
	return &mongoStoryRepository{collection: db.Collection("stories")}
}

func (r *mongoStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	story.ID = primitive.NewObjectID()
	story.CreatedAt = time.Now()
	story.ExpiresAt = story.CreatedAt.Add(models.StoryTTL)
	if story.Viewers == nil {
		story.Viewers = []string{}
	}
	_, err := r.collection.InsertOne(ctx, story)
	return err
}

func (r *mongoStoryRepository) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid story ID format")
	}
	var story models.Story
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&story); err != nil {
		return nil, err
	}
	return &story, nil
}

// GetActiveByUserIDs returns the unexpired stories of the given users,
// newest first
func (r *mongoStoryRepository) GetActiveByUserIDs(ctx context.Context, userIDs []string) ([]models.Story, error) {
	if len(userIDs) == 0 {
		return []models.Story{}, nil
	}
	filter := bson.M{
		"user_id":    bson.M{"$in": userIDs},
		"expires_at": bson.M{"$gt": time.Now()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stories []models.Story
	if err = cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// GetAllByUserID returns every story of a user regardless of expiry; the
// deletion cascade needs the expired ones too, for media cleanup.
func (r *mongoStoryRepository) GetAllByUserID(ctx context.Context, userID string) ([]models.Story, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stories []models.Story
	if err = cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// AddViewer records that the user has seen the story; each viewer counts once
func (r *mongoStoryRepository) AddViewer(ctx context.Context, storyID string, userID string) error {
	objID, err := primitive.ObjectIDFromHex(storyID)
	if err != nil {
		return fmt.Errorf("invalid story ID format")
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$addToSet": bson.M{"viewers": userID}})
	return err
}

func (r *mongoStoryRepository) DeleteStory(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid story ID format")
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("story not found")
	}
	return nil
}

// DeleteExpiredStories physically removes stories past their expiry
func (r *mongoStoryRepository) DeleteExpiredStories(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
