package domain

import "time"

// Post is a single feed entry.
type Post struct {
	ID        string
	Author    string
	Content   string
	CreatedAt time.Time
	Likes     int
	LikedBy   []string
}

// IsLikedBy reports whether userID is in the liked-by set.
func (p *Post) IsLikedBy(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// LikeResult is the state of a post right after a like toggle.
type LikeResult struct {
	Likes   int
	IsLiked bool
}
