package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Socials holds a user's public social links
type Socials struct {
	Twitter   string `json:"twitter" bson:"twitter"`
	LinkedIn  string `json:"linkedin" bson:"linkedin"`
	Instagram string `json:"instagram" bson:"instagram"`
}

// User is a profile document stored in MongoDB. Following, Followers and
// Bookmarks hold hex ids of other documents.
type User struct {
	ID                   primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	FirstName            string             `json:"firstName" bson:"firstName"`
	LastName             string             `json:"lastName" bson:"lastName"`
	Email                string             `json:"email" bson:"email"`
	Password             string             `json:"-" bson:"password"`
	PicturePath          string             `json:"picturePath" bson:"picturePath"`
	Location             string             `json:"location" bson:"location"`
	Occupation           string             `json:"occupation" bson:"occupation"`
	Socials              Socials            `json:"socials" bson:"socials"`
	Privacy              string             `json:"privacy" bson:"privacy"`
	Role                 string             `json:"role" bson:"role"`
	Following            []string           `json:"following" bson:"following"`
	Followers            []string           `json:"followers" bson:"followers"`
	Bookmarks            []string           `json:"bookmarks" bson:"bookmarks"`
	ViewedProfile        int                `json:"viewedProfile" bson:"viewedProfile"`
	Impressions          int                `json:"impressions" bson:"impressions"`
	ResetPasswordToken   string             `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time         `json:"-" bson:"resetPasswordExpires,omitempty"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FullName returns "First Last"
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserCompact is the public card used in following lists and guest lists
type UserCompact struct {
	ID          string `json:"_id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email,omitempty"`
	Occupation  string `json:"occupation,omitempty"`
	Location    string `json:"location,omitempty"`
	PicturePath string `json:"picturePath,omitempty"`
}

// ToCompact converts a user to its public card
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:          u.ID.Hex(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Occupation:  u.Occupation,
		Location:    u.Location,
		PicturePath: u.PicturePath,
	}
}

// ToGuest converts a user to the organizer-facing guest entry
func (u *User) ToGuest() UserCompact {
	return UserCompact{
		ID:        u.ID.Hex(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Location:  u.Location,
	}
}

type RegisterRequest struct {
	FirstName   string `json:"firstName" form:"firstName" validate:"required,min=2,max=50"`
	LastName    string `json:"lastName" form:"lastName" validate:"required,min=2,max=50"`
	Email       string `json:"email" form:"email" validate:"required,email,max=50"`
	Password    string `json:"password" form:"password" validate:"required,min=5"`
	PicturePath string `json:"picturePath" form:"picturePath"`
	Location    string `json:"location" form:"location"`
	Occupation  string `json:"occupation" form:"occupation"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=5"`
}

type ChangePasswordRequest struct {
	UserID  string `json:"userId"`
	Current string `json:"current" validate:"required"`
	New     string `json:"new" validate:"required,min=5"`
}

type UpdateUserRequest struct {
	FirstName  string `json:"firstName" form:"firstName" validate:"omitempty,min=2,max=50"`
	LastName   string `json:"lastName" form:"lastName" validate:"omitempty,min=2,max=50"`
	Location   string `json:"location" form:"location"`
	Occupation string `json:"occupation" form:"occupation"`
	Twitter    string `json:"twitter" form:"twitter"`
	LinkedIn   string `json:"linkedin" form:"linkedin"`
	Instagram  string `json:"instagram" form:"instagram"`
}

// AuthResponse is returned by every successful sign-in
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
