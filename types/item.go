package types

import "time"

// Item is a stored summary. Items are immutable once created.
type Item struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedItem is an Item joined with its author's public projection
type FeedItem struct {
	Item
	Author PublicUser `json:"user"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the projection of a User that is safe to return to other users
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the public projection of u
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Follow is a directed edge in the follow graph, unique per pair
type Follow struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"followerId"`
	FollowingID string    `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FollowEdge is a Follow joined with the user on the other end of the edge
type FollowEdge struct {
	Follow
	User PublicUser `json:"user"`
}

// ItemCreated is published on Kafka after an Item is persisted
type ItemCreated struct {
	ItemID    string    `json:"itemId"`
	UserID    string    `json:"userId"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewItemCreated builds the event for a persisted item
func NewItemCreated(it *Item) ItemCreated {
	return ItemCreated{
		ItemID:    it.ID,
		UserID:    it.UserID,
		URL:       it.URL,
		Title:     it.Title,
		Summary:   it.Summary,
		CreatedAt: it.CreatedAt,
	}
}
