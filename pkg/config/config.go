package config

import "os"

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	StorageBucket           string
	JWTSecret               string
	ReplyDeletionPolicy     string
	StoryPurgeInterval      string
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		StorageBucket:           getEnv("STORAGE_BUCKET", ""),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		ReplyDeletionPolicy:     getEnv("REPLY_DELETION_POLICY", "orphan"),
		StoryPurgeInterval:      getEnv("STORY_PURGE_INTERVAL", "1h"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
