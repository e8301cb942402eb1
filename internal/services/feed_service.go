package services

import (
	"context"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/repositories"
)

// Bucket shares of the requested limit. The discovery bucket is re-sampled
// on every call; the feed deliberately trades determinism for diversity.
const (
	followedShare  = 0.6
	discoveryShare = 0.35
	selfShare      = 0.05
)

// FeedService blends three content-selection strategies into a deduplicated,
// shuffled, paginated feed.
type FeedService struct {
	postRepo   repositories.PostRepository
	userRepo   repositories.UserRepository
	followRepo repositories.FollowRepository
}

// NewFeedService creates a FeedService
func NewFeedService(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// ComposeFeed builds one feed page for the requester:
//
//  1. up to ceil(0.60*limit) most recent posts from followed users + self,
//  2. up to ceil(0.35*limit) posts sampled uniformly from everyone else,
//  3. up to ceil(0.05*limit) of the requester's own most recent posts,
//
// deduplicated by post id (first seen wins), shuffled so bucket boundaries
// never reach the client, then sliced by classic offset pagination. A page
// past the end of the union is an empty result, not an error. Posts whose
// author is deactivated or currently suspended never surface.
func (s *FeedService) ComposeFeed(ctx context.Context, userID uint, page, limit int) ([]models.Post, error) {
	if _, err := s.userRepo.GetUserByID(userID); err != nil {
		return nil, ErrUserNotFound
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	followingIDs, err := s.followRepo.GetFollowingIDs(userID)
	if err != nil {
		return nil, err
	}

	// S = followed set plus the requester
	authorSet := make([]string, 0, len(followingIDs)+1)
	for _, id := range followingIDs {
		authorSet = append(authorSet, uid(id))
	}
	authorSet = append(authorSet, uid(userID))

	followed, err := s.postRepo.GetRecentByAuthors(ctx, authorSet, share(limit, followedShare))
	if err != nil {
		return nil, err
	}

	discovery, err := s.postRepo.SampleExcludingAuthors(ctx, authorSet, share(limit, discoveryShare))
	if err != nil {
		return nil, err
	}

	own, err := s.postRepo.GetPostsByUserID(ctx, uid(userID), 0, share(limit, selfShare))
	if err != nil {
		return nil, err
	}
	// the per-user query is unfiltered; moderated-away content stays out
	// of the feed here
	visible := own[:0]
	for _, post := range own {
		if post.Status == models.ModerationPending || post.Status == models.ModerationApproved {
			visible = append(visible, post)
		}
	}

	feed := dedupePosts(followed, discovery, visible)
	feed, err = s.dropHiddenAuthors(feed)
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(feed), func(i, j int) {
		feed[i], feed[j] = feed[j], feed[i]
	})

	skip := (page - 1) * limit
	if skip >= len(feed) {
		return []models.Post{}, nil
	}
	end := skip + limit
	if end > len(feed) {
		end = len(feed)
	}
	return feed[skip:end], nil
}

// dropHiddenAuthors removes posts whose author is deactivated, currently
// suspended, or no longer exists. The follow graph and the discovery sample
// both lag behind account-state changes, so the check runs on the blended
// result rather than per bucket.
func (s *FeedService) dropHiddenAuthors(posts []models.Post) ([]models.Post, error) {
	if len(posts) == 0 {
		return posts, nil
	}

	authorIDs := make([]uint, 0, len(posts))
	seen := make(map[string]bool, len(posts))
	for _, post := range posts {
		if seen[post.UserID] {
			continue
		}
		seen[post.UserID] = true
		if id, err := strconv.ParseUint(post.UserID, 10, 32); err == nil {
			authorIDs = append(authorIDs, uint(id))
		}
	}

	authors, err := s.userRepo.GetUsersByIDs(authorIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	eligible := make(map[string]bool, len(authors))
	for i := range authors {
		if authors[i].IsActive && !authors[i].Suspended(now) {
			eligible[uid(authors[i].ID)] = true
		}
	}

	kept := posts[:0]
	for _, post := range posts {
		if eligible[post.UserID] {
			kept = append(kept, post)
		}
	}
	return kept, nil
}

func share(limit int, fraction float64) int64 {
	return int64(math.Ceil(float64(limit) * fraction))
}

// dedupePosts unions the buckets by post id, first seen wins
func dedupePosts(buckets ...[]models.Post) []models.Post {
	seen := make(map[string]bool)
	var union []models.Post
	for _, bucket := range buckets {
		for _, post := range bucket {
			id := post.ID.Hex()
			if seen[id] {
				continue
			}
			seen[id] = true
			union = append(union, post)
		}
	}
	return union
}
