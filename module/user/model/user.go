package model

import (
	"time"

	"NagarSeva/service/mgo"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User is a staff console account. PasswordHash is bcrypt and never leaves
// the store layer.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	IsVerified   bool               `bson:"is_verified" json:"isVerified"`
	CreateTime   time.Time          `bson:"create_time" json:"createTime"`
}

const (
	UserFieldEmail      = "email"
	UserFieldName       = "name"
	UserFieldRole       = "role"
	UserFieldIsVerified = "is_verified"
)

func (u *User) GetTableName() string {
	return "users"
}

func (u *User) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(u.GetTableName())
}
