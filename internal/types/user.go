package types

// DefaultBio is what a freshly created account says about itself.
const DefaultBio = "Just another traveler."

// User is the public profile of an account.
type User struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required"`
	ProfilePic string `json:"profilePic,omitempty"` // data URL or remote URL
	Dob        string `json:"dob,omitempty"`
	Bio        string `json:"bio,omitempty"`
}

// UserRecord is the stored form of an account, keyed by email.
type UserRecord struct {
	User
	PasswordHash string `json:"passwordHash"`
}

// Profile returns a copy of the public part of the record.
func (r *UserRecord) Profile() *User {
	if r == nil {
		return nil
	}
	u := r.User
	return &u
}

// SavedTrip is a timestamped snapshot of an itinerary owned by one account.
type SavedTrip struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Destination string    `json:"destination"`
	Data        Itinerary `json:"data"`
}
