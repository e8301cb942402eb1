package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app with the storage bucket used for
// media assets and the messaging client used for push delivery
type App struct {
	FirebaseApp *firebase.App
	Bucket      *storage.BucketHandle
	BucketName  string
	Messaging   *messaging.Client
}

// InitFirebase initializes the Firebase application, storage bucket, and
// messaging client
func InitFirebase(ctx context.Context, credentialsPath, bucketName string, log *logrus.Logger) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("Firebase credentials path not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("Firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	conf := &firebase.Config{StorageBucket: bucketName}
	firebaseApp, err := firebase.NewApp(ctx, conf, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	storageClient, err := firebaseApp.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}
	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error getting default storage bucket: %w", err)
	}

	messagingClient, err := firebaseApp.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase messaging client: %w", err)
	}

	log.Info("Firebase app, storage bucket, and messaging client initialized")
	return &App{
		FirebaseApp: firebaseApp,
		Bucket:      bucket,
		BucketName:  bucketName,
		Messaging:   messagingClient,
	}, nil
}
