package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/novagram/backend/internal/media"
	"github.com/novagram/backend/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errNotFound = errors.New("record not found")

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// --- users ---

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errNotFound
}

func (f *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeUserRepo) GetUsers(page, limit int) ([]models.User, int64, error) {
	var users []models.User
	for _, u := range f.users {
		users = append(users, *u)
	}
	return users, int64(len(users)), nil
}

func (f *fakeUserRepo) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) UpdateUser(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) DeleteUser(id uint) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) SetSuspension(id uint, until *time.Time, reason string) error {
	u, ok := f.users[id]
	if !ok {
		return errNotFound
	}
	u.SuspendedUntil = until
	u.DeactivationReason = reason
	return nil
}

func (f *fakeUserRepo) SetActive(id uint, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return errNotFound
	}
	u.IsActive = active
	return nil
}

func (f *fakeUserRepo) IncrementFollowersCount(id uint, delta int) error {
	if u, ok := f.users[id]; ok {
		u.FollowersCount += delta
	}
	return nil
}

func (f *fakeUserRepo) IncrementFollowingCount(id uint, delta int) error {
	if u, ok := f.users[id]; ok {
		u.FollowingCount += delta
	}
	return nil
}

func (f *fakeUserRepo) IncrementPostsCount(id uint, delta int) error {
	if u, ok := f.users[id]; ok {
		u.PostsCount += delta
	}
	return nil
}

// --- follows ---

type fakeFollowRepo struct {
	edges []models.Follow
}

func newFakeFollowRepo() *fakeFollowRepo { return &fakeFollowRepo{} }

func (f *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	f.edges = append(f.edges, *follow)
	return nil
}

func (f *fakeFollowRepo) DeleteFollow(followerID, followingID uint) error {
	for i, e := range f.edges {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (f *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	for _, e := range f.edges {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollowRepo) GetFollowers(userID uint) ([]models.User, error) { return nil, nil }
func (f *fakeFollowRepo) GetFollowing(userID uint) ([]models.User, error) { return nil, nil }

func (f *fakeFollowRepo) GetFollowerIDs(userID uint) ([]uint, error) {
	var ids []uint
	for _, e := range f.edges {
		if e.FollowingID == userID {
			ids = append(ids, e.FollowerID)
		}
	}
	return ids, nil
}

func (f *fakeFollowRepo) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	for _, e := range f.edges {
		if e.FollowerID == userID {
			ids = append(ids, e.FollowingID)
		}
	}
	return ids, nil
}

func (f *fakeFollowRepo) GetCounterpartIDs(userID uint) ([]uint, []uint, error) {
	followers, _ := f.GetFollowerIDs(userID)
	following, _ := f.GetFollowingIDs(userID)
	return followers, following, nil
}

func (f *fakeFollowRepo) DeleteAllForUser(userID uint) error {
	var kept []models.Follow
	for _, e := range f.edges {
		if e.FollowerID != userID && e.FollowingID != userID {
			kept = append(kept, e)
		}
	}
	f.edges = kept
	return nil
}

// --- likes ---

type fakeLikeRepo struct {
	likes  map[string]*models.Like // key postID|userID
	nextID uint
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[string]*models.Like), nextID: 1}
}

func likeKey(postID string, userID uint) string {
	return postID + "|" + strconv.FormatUint(uint64(userID), 10)
}

func (f *fakeLikeRepo) Toggle(postID string, userID uint) (bool, error) {
	key := likeKey(postID, userID)
	if like, ok := f.likes[key]; ok {
		like.IsLiked = !like.IsLiked
		return like.IsLiked, nil
	}
	like := &models.Like{PostID: postID, UserID: userID, IsLiked: true}
	like.ID = f.nextID
	f.nextID++
	f.likes[key] = like
	return true, nil
}

func (f *fakeLikeRepo) GetLike(postID string, userID uint) (*models.Like, error) {
	if like, ok := f.likes[likeKey(postID, userID)]; ok {
		return like, nil
	}
	return nil, errNotFound
}

func (f *fakeLikeRepo) GetLikerIDs(postID string) ([]uint, error) {
	var ids []uint
	for _, like := range f.likes {
		if like.PostID == postID && like.IsLiked {
			ids = append(ids, like.UserID)
		}
	}
	return ids, nil
}

func (f *fakeLikeRepo) GetLikesCountByPostID(postID string) (int64, error) {
	ids, _ := f.GetLikerIDs(postID)
	return int64(len(ids)), nil
}

func (f *fakeLikeRepo) HasUserLikedPost(postID string, userID uint) (bool, error) {
	like, ok := f.likes[likeKey(postID, userID)]
	return ok && like.IsLiked, nil
}

func (f *fakeLikeRepo) DeleteByPostID(postID string) error {
	for key, like := range f.likes {
		if like.PostID == postID {
			delete(f.likes, key)
		}
	}
	return nil
}

func (f *fakeLikeRepo) DeleteByUserID(userID uint) error {
	for key, like := range f.likes {
		if like.UserID == userID {
			delete(f.likes, key)
		}
	}
	return nil
}

// --- comments ---

type fakeCommentRepo struct {
	comments map[uint]*models.Comment
	nextID   uint
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uint]*models.Comment), nextID: 1}
}

func (f *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	comment.ID = f.nextID
	f.nextID++
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	if c, ok := f.comments[id]; ok {
		return c, nil
	}
	return nil, errNotFound
}

func (f *fakeCommentRepo) GetCommentsByPostID(postID string, page, limit int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	return comments, int64(len(comments)), nil
}

func (f *fakeCommentRepo) GetReplies(parentID uint) ([]models.Comment, error) {
	var replies []models.Comment
	for _, c := range f.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			replies = append(replies, *c)
		}
	}
	return replies, nil
}

func (f *fakeCommentRepo) UpdateComment(comment *models.Comment) error {
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentRepo) IncrementLikesCount(id uint, delta int) error {
	if c, ok := f.comments[id]; ok {
		c.LikesCount += delta
		if c.LikesCount < 0 {
			c.LikesCount = 0
		}
	}
	return nil
}

func (f *fakeCommentRepo) SetStatus(id uint, status string) (int64, error) {
	c, ok := f.comments[id]
	if !ok {
		return 0, nil
	}
	c.Status = status
	return 1, nil
}

func (f *fakeCommentRepo) DeleteComment(id uint) error {
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) DeleteByPostID(postID string) error {
	for id, c := range f.comments {
		if c.PostID == postID {
			delete(f.comments, id)
		}
	}
	return nil
}

func (f *fakeCommentRepo) DeleteByUserID(userID uint) error {
	for id, c := range f.comments {
		if c.UserID == userID {
			delete(f.comments, id)
		}
	}
	return nil
}

func (f *fakeCommentRepo) ReparentReplies(parentID uint, newParentID *uint) error {
	for _, c := range f.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			c.ParentID = newParentID
		}
	}
	return nil
}

// --- comment likes ---

type fakeCommentLikeRepo struct {
	likes    map[string]*models.CommentLike // key commentID|userID
	comments *fakeCommentRepo               // for the post/author subquery deletes
	nextID   uint
}

func newFakeCommentLikeRepo(comments *fakeCommentRepo) *fakeCommentLikeRepo {
	return &fakeCommentLikeRepo{
		likes:    make(map[string]*models.CommentLike),
		comments: comments,
		nextID:   1,
	}
}

func commentLikeKey(commentID, userID uint) string {
	return strconv.FormatUint(uint64(commentID), 10) + "|" + strconv.FormatUint(uint64(userID), 10)
}

func (f *fakeCommentLikeRepo) Toggle(commentID, userID uint) (bool, error) {
	key := commentLikeKey(commentID, userID)
	if like, ok := f.likes[key]; ok {
		like.IsLiked = !like.IsLiked
		return like.IsLiked, nil
	}
	like := &models.CommentLike{CommentID: commentID, UserID: userID, IsLiked: true}
	like.ID = f.nextID
	f.nextID++
	f.likes[key] = like
	return true, nil
}

func (f *fakeCommentLikeRepo) GetLikesCount(commentID uint) (int64, error) {
	var n int64
	for _, like := range f.likes {
		if like.CommentID == commentID && like.IsLiked {
			n++
		}
	}
	return n, nil
}

func (f *fakeCommentLikeRepo) HasUserLikedComment(commentID, userID uint) (bool, error) {
	like, ok := f.likes[commentLikeKey(commentID, userID)]
	return ok && like.IsLiked, nil
}

func (f *fakeCommentLikeRepo) DeleteByCommentID(commentID uint) error {
	for key, like := range f.likes {
		if like.CommentID == commentID {
			delete(f.likes, key)
		}
	}
	return nil
}

func (f *fakeCommentLikeRepo) DeleteByUserID(userID uint) error {
	for key, like := range f.likes {
		if like.UserID == userID {
			delete(f.likes, key)
		}
	}
	return nil
}

func (f *fakeCommentLikeRepo) DeleteByPostID(postID string) error {
	for key, like := range f.likes {
		if c, ok := f.comments.comments[like.CommentID]; ok && c.PostID == postID {
			delete(f.likes, key)
		}
	}
	return nil
}

func (f *fakeCommentLikeRepo) DeleteByCommentAuthor(authorID uint) error {
	for key, like := range f.likes {
		if c, ok := f.comments.comments[like.CommentID]; ok && c.UserID == authorID {
			delete(f.likes, key)
		}
	}
	return nil
}

// --- posts ---

type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if post.Status == "" {
		post.Status = models.ModerationPending
	}
	if post.Likes == nil {
		post.Likes = []string{}
	}
	f.posts[post.ID.Hex()] = post
	return nil
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	if p, ok := f.posts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("post not found")
}

func (f *fakePostRepo) sorted(filter func(*models.Post) bool) []models.Post {
	var posts []models.Post
	for _, p := range f.posts {
		if filter(p) {
			posts = append(posts, *p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts
}

func visible(p *models.Post) bool {
	return p.Status == models.ModerationPending || p.Status == models.ModerationApproved
}

func clip(posts []models.Post, skip, limit int64) []models.Post {
	if skip >= int64(len(posts)) {
		return []models.Post{}
	}
	posts = posts[skip:]
	if limit > 0 && int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts
}

func (f *fakePostRepo) GetPostsByUserID(_ context.Context, userID string, skip, limit int64) ([]models.Post, error) {
	return clip(f.sorted(func(p *models.Post) bool { return p.UserID == userID }), skip, limit), nil
}

func (f *fakePostRepo) GetAllPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	return clip(f.sorted(visible), skip, limit), nil
}

func (f *fakePostRepo) GetRecentByAuthors(_ context.Context, authorIDs []string, limit int64) ([]models.Post, error) {
	set := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		set[id] = true
	}
	return clip(f.sorted(func(p *models.Post) bool { return set[p.UserID] && visible(p) }), 0, limit), nil
}

func (f *fakePostRepo) SampleExcludingAuthors(_ context.Context, excluded []string, size int64) ([]models.Post, error) {
	set := make(map[string]bool, len(excluded))
	for _, id := range excluded {
		set[id] = true
	}
	return clip(f.sorted(func(p *models.Post) bool { return !set[p.UserID] && visible(p) }), 0, size), nil
}

func (f *fakePostRepo) UpdatePost(_ context.Context, id string, post *models.Post) error {
	if _, ok := f.posts[id]; !ok {
		return fmt.Errorf("post not found")
	}
	f.posts[id] = post
	return nil
}

func (f *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return fmt.Errorf("post not found")
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) AddLiker(_ context.Context, postID string, userID string) error {
	p, ok := f.posts[postID]
	if !ok {
		return fmt.Errorf("post not found")
	}
	for _, id := range p.Likes {
		if id == userID {
			return nil
		}
	}
	p.Likes = append(p.Likes, userID)
	p.LikesCount++
	return nil
}

func (f *fakePostRepo) RemoveLiker(_ context.Context, postID string, userID string) error {
	p, ok := f.posts[postID]
	if !ok {
		return fmt.Errorf("post not found")
	}
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			p.LikesCount--
			break
		}
	}
	return nil
}

func (f *fakePostRepo) SetStatus(_ context.Context, id string, status string) (int64, error) {
	p, ok := f.posts[id]
	if !ok {
		return 0, nil
	}
	p.Status = status
	return 1, nil
}

func (f *fakePostRepo) IncrementCommentsCount(_ context.Context, postID string, delta int) error {
	if p, ok := f.posts[postID]; ok {
		p.CommentsCount += delta
	}
	return nil
}

func (f *fakePostRepo) CountByUserID(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, p := range f.posts {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

// --- stories ---

type fakeStoryRepo struct {
	stories map[string]*models.Story
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{stories: make(map[string]*models.Story)}
}

func (f *fakeStoryRepo) CreateStory(_ context.Context, story *models.Story) error {
	story.ID = primitive.NewObjectID()
	if story.CreatedAt.IsZero() {
		story.CreatedAt = time.Now()
	}
	if story.ExpiresAt.IsZero() {
		story.ExpiresAt = story.CreatedAt.Add(models.StoryTTL)
	}
	if story.Viewers == nil {
		story.Viewers = []string{}
	}
	f.stories[story.ID.Hex()] = story
	return nil
}

func (f *fakeStoryRepo) GetStoryByID(_ context.Context, id string) (*models.Story, error) {
	if s, ok := f.stories[id]; ok {
		return s, nil
	}
	return nil, errNotFound
}

func (f *fakeStoryRepo) GetActiveByUserIDs(_ context.Context, userIDs []string) ([]models.Story, error) {
	set := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		set[id] = true
	}
	var stories []models.Story
	now := time.Now()
	for _, s := range f.stories {
		if set[s.UserID] && s.ExpiresAt.After(now) {
			stories = append(stories, *s)
		}
	}
	return stories, nil
}

func (f *fakeStoryRepo) GetAllByUserID(_ context.Context, userID string) ([]models.Story, error) {
	var stories []models.Story
	for _, s := range f.stories {
		if s.UserID == userID {
			stories = append(stories, *s)
		}
	}
	return stories, nil
}

func (f *fakeStoryRepo) AddViewer(_ context.Context, storyID string, userID string) error {
	s, ok := f.stories[storyID]
	if !ok {
		return errNotFound
	}
	for _, v := range s.Viewers {
		if v == userID {
			return nil
		}
	}
	s.Viewers = append(s.Viewers, userID)
	return nil
}

func (f *fakeStoryRepo) DeleteStory(_ context.Context, id string) error {
	if _, ok := f.stories[id]; !ok {
		return fmt.Errorf("story not found")
	}
	delete(f.stories, id)
	return nil
}

func (f *fakeStoryRepo) DeleteExpiredStories(_ context.Context) (int64, error) {
	var n int64
	now := time.Now()
	for id, s := range f.stories {
		if !s.ExpiresAt.After(now) {
			delete(f.stories, id)
			n++
		}
	}
	return n, nil
}

// --- notifications ---

type fakeNotificationRepo struct {
	notifications []models.Notification
	nextID        uint
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	n.ID = f.nextID
	n.CreatedAt = time.Now()
	f.nextID++
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotificationRepo) CreateNotifications(ns []models.Notification) error {
	for i := range ns {
		if err := f.CreateNotification(&ns[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var n int64
	for _, notif := range f.notifications {
		if notif.RecipientID == recipientID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) MarkAsRead(notificationID, recipientID uint) error {
	for i, n := range f.notifications {
		if n.ID == notificationID && n.RecipientID == recipientID {
			f.notifications[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	for i, n := range f.notifications {
		if n.RecipientID == recipientID {
			f.notifications[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) DeleteByUserID(userID uint) error {
	var kept []models.Notification
	for _, n := range f.notifications {
		if n.ActorID != userID && n.RecipientID != userID {
			kept = append(kept, n)
		}
	}
	f.notifications = kept
	return nil
}

func (f *fakeNotificationRepo) DeleteByPostID(postID string) error {
	var kept []models.Notification
	for _, n := range f.notifications {
		if n.PostID != postID {
			kept = append(kept, n)
		}
	}
	f.notifications = kept
	return nil
}

// --- reports ---

type fakeReportRepo struct {
	reports map[string]*models.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*models.Report)}
}

func (f *fakeReportRepo) CreateReport(_ context.Context, report *models.Report) error {
	report.ID = primitive.NewObjectID()
	report.Status = models.ReportPending
	report.CreatedAt = time.Now()
	f.reports[report.ID.Hex()] = report
	return nil
}

func (f *fakeReportRepo) GetReportByID(_ context.Context, id string) (*models.Report, error) {
	if r, ok := f.reports[id]; ok {
		return r, nil
	}
	return nil, errNotFound
}

func (f *fakeReportRepo) GetPendingReports(_ context.Context, page, limit int) ([]models.Report, int64, error) {
	var out []models.Report
	for _, r := range f.reports {
		if r.Status == models.ReportPending {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReportRepo) Resolve(_ context.Context, id string, status string, adminID uint, notes string) (int64, error) {
	r, ok := f.reports[id]
	if !ok {
		return 0, nil
	}
	now := time.Now()
	r.Status = status
	r.HandledBy = adminID
	r.HandledAt = &now
	r.Notes = notes
	return 1, nil
}

func (f *fakeReportRepo) GetStats(_ context.Context) (*models.ReportStats, error) {
	stats := &models.ReportStats{
		ByStatus:   make(map[string]int64),
		BySeverity: make(map[string]int64),
	}
	for _, r := range f.reports {
		stats.Total++
		stats.ByStatus[r.Status]++
		stats.BySeverity[r.Severity]++
	}
	return stats, nil
}

// --- audit log ---

type fakeAuditRepo struct {
	entries []models.AuditLogEntry
}

func newFakeAuditRepo() *fakeAuditRepo { return &fakeAuditRepo{} }

func (f *fakeAuditRepo) Append(_ context.Context, entry *models.AuditLogEntry) error {
	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) Find(_ context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, int64, error) {
	var out []models.AuditLogEntry
	for _, e := range f.entries {
		if filter.AdminID != 0 && e.AdminID != filter.AdminID {
			continue
		}
		if filter.Action != "" && !strings.Contains(e.Action, filter.Action) {
			continue
		}
		if filter.TargetType != "" && e.TargetType != filter.TargetType {
			continue
		}
		if filter.DateFrom != nil && e.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && e.CreatedAt.After(*filter.DateTo) {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAuditRepo) GetStats(_ context.Context) (*models.AuditStats, error) {
	stats := &models.AuditStats{
		ByAction: make(map[string]int64),
		ByAdmin:  make(map[uint]int64),
	}
	for _, e := range f.entries {
		stats.Total++
		stats.ByAction[e.Action]++
		stats.ByAdmin[e.AdminID]++
	}
	return stats, nil
}

// --- media store ---

type fakeMediaStore struct {
	deleted []string          // asset ids in delete order
	failOn  map[string]bool   // asset ids whose delete should fail
	types   map[string]string // asset id -> resource type seen
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{failOn: make(map[string]bool), types: make(map[string]string)}
}

func (f *fakeMediaStore) Upload(_ context.Context, data []byte, contentType string, ownerID uint, kind string) (*media.UploadResult, error) {
	return &media.UploadResult{
		URL:  fmt.Sprintf("https://cdn.test/upload/%s/%d/obj", kind, ownerID),
		Type: media.TypeForContentType(contentType),
	}, nil
}

func (f *fakeMediaStore) Delete(_ context.Context, assetID string, resourceType string) error {
	f.types[assetID] = resourceType
	if f.failOn[assetID] {
		return errors.New("upstream unavailable")
	}
	f.deleted = append(f.deleted, assetID)
	return nil
}

// --- push sink ---

type fakePushSender struct {
	sent []PushPayload
}

func (f *fakePushSender) Send(_ context.Context, recipientID uint, title, body string, payload PushPayload) error {
	f.sent = append(f.sent, payload)
	return nil
}
