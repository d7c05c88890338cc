package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// User represents an admin-tool user stored in MongoDB
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	Name         string             `json:"name" bson:"name"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	LastLogin    *time.Time         `json:"last_login,omitempty" bson:"last_login,omitempty"`
}

// CollectionName returns the MongoDB collection name for the User model
func (User) CollectionName() string {
	return "users"
}

// NewUser creates a new User with a bcrypt password hash
func NewUser(email, password, name string) (*User, error) {
	u := &User{
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the stored password hash
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
