// Package media adapts an external object store for binary assets. Uploads
// return a canonical (url, type) pair; deletes address assets by an
// identifier derived back from the URL.
package media

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// Upload kinds: where the asset will be attached.
const (
	KindPublication = "publication"
	KindStory       = "story"
)

// Asset resource types, used when deleting.
const (
	TypeImage = "image"
	TypeVideo = "video"
)

// UploadResult is the canonical result of storing an asset
type UploadResult struct {
	URL  string `json:"url"`
	Type string `json:"type"` // "image" or "video"
}

// Store uploads and deletes binary assets in an external object store.
// Delete must tolerate a missing asset gracefully.
type Store interface {
	Upload(ctx context.Context, data []byte, contentType string, ownerID uint, kind string) (*UploadResult, error)
	Delete(ctx context.Context, assetID string, resourceType string) error
}

// DeriveAssetID recovers the storage identifier from an asset URL: the host
// and query are stripped, path segments up to and including the literal
// "upload" marker are dropped, and the remaining folder segments are joined
// with the filename minus its extension. Returns "" when the URL carries no
// marker, which callers treat as "nothing to delete".
func DeriveAssetID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	marker := -1
	for i, seg := range segments {
		if seg == "upload" {
			marker = i
			break
		}
	}
	if marker == -1 || marker == len(segments)-1 {
		return ""
	}

	rest := segments[marker+1:]
	filename := rest[len(rest)-1]
	filename = strings.TrimSuffix(filename, path.Ext(filename))
	if filename == "" {
		return ""
	}

	parts := append(append([]string{}, rest[:len(rest)-1]...), filename)
	return strings.Join(parts, "/")
}

// TypeForContentType maps an upload MIME type to the asset resource type
func TypeForContentType(contentType string) string {
	if strings.HasPrefix(contentType, "video/") {
		return TypeVideo
	}
	return TypeImage
}
