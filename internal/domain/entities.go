package domain

import "time"

// Role is an application role carried on a user account.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStudent Role = "STUDENT"
)

// User represents a registered account. Password is stored as whatever the
// configured PasswordVerifier produced (plaintext in demo mode) and is
// stripped from API responses via Sanitize.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Password  string    `json:"password,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sanitize returns a copy of the user safe to put on the wire.
func (u User) Sanitize() User {
	u.Password = ""
	return u
}

// Admin is the administrator record backed by a User account.
type Admin struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BoardMember links a user to a club board position.
type BoardMember struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ClubID    string    `json:"clubId"`
	Position  string    `json:"position"`
	JoinDate  time.Time `json:"joinDate"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Committee is a club sub-group with a deduplicated member list of user IDs.
type Committee struct {
	ID          string    `json:"id"`
	ClubID      string    `json:"clubId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Club is the root entity events, gallery items, committees, and board
// members hang off.
type Club struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Overview    string    `json:"overview,omitempty"`
	Mission     string    `json:"mission,omitempty"`
	Founders    string    `json:"founders,omitempty"`
	President   string    `json:"president"`
	Email       string    `json:"email"`
	Category    string    `json:"category"`
	Logo        string    `json:"logo,omitempty"`
	MemberCount int       `json:"memberCount"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Event is a club-hosted event.
type Event struct {
	ID            string    `json:"id"`
	ClubID        string    `json:"clubId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Location      string    `json:"location"`
	Capacity      int       `json:"capacity"`
	AttendeeCount int       `json:"attendeeCount"`
	ImageURL      string    `json:"imageUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// GalleryItem is a piece of club media. It is never updated after creation,
// so it carries no updatedAt.
type GalleryItem struct {
	ID          string    `json:"id"`
	ImageURL    string    `json:"imageUrl"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ClubID      string    `json:"clubId"`
	CreatedAt   time.Time `json:"createdAt"`
}
