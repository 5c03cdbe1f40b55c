// Package service implements staff account management: signup/login with
// bcrypt passwords and JWT issuance, plus the admin-only user operations.
package service

import (
	"context"
	"regexp"
	"time"

	usermodel "NagarSeva/module/user/model"
	"NagarSeva/tools/errs"
	"NagarSeva/tools/security"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type Users struct {
	DB  *mongo.Database
	JWT security.Options
}

func New(db *mongo.Database, jwtOpts security.Options) *Users {
	return &Users{DB: db, JWT: jwtOpts}
}

func (u *Users) coll() *mongo.Collection {
	user := usermodel.User{}
	return u.DB.Collection(user.GetTableName())
}

type AuthResult struct {
	Token  string    `json:"token"`
	Role   string    `json:"role"`
	Expire time.Time `json:"expire"`
}

// Signup creates an unverified account. An admin must verify it before the
// token is usable against protected routes.
func (u *Users) Signup(ctx context.Context, email, password, role string) (*AuthResult, error) {
	if role != usermodel.RoleAdmin && role != usermodel.RoleEmployee {
		e := errs.ErrArgs.WithDetail("role must be admin or employee")
		return nil, &e
	}
	if email == "" || password == "" {
		e := errs.ErrArgs.WithDetail("email and password are required")
		return nil, &e
	}

	count, err := u.coll().CountDocuments(ctx, bson.M{usermodel.UserFieldEmail: email})
	if err != nil {
		return nil, errors.Wrap(err, "check existing user")
	}
	if count > 0 {
		e := errs.ErrDuplicate.WithDetail("email already registered")
		return nil, &e
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := usermodel.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsVerified:   false,
		CreateTime:   time.Now(),
	}
	res, err := u.coll().InsertOne(ctx, &user)
	if err != nil {
		return nil, errors.Wrap(err, "insert user")
	}
	id, _ := res.InsertedID.(primitive.ObjectID)

	token, exp, err := security.Generate(u.JWT, id.Hex(), role)
	if err != nil {
		return nil, errors.Wrap(err, "sign token")
	}
	return &AuthResult{Token: token, Role: role, Expire: exp}, nil
}

func (u *Users) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user usermodel.User
	err := u.coll().FindOne(ctx, bson.M{usermodel.UserFieldEmail: email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &errs.ErrCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, &errs.ErrCredentials
	}

	token, exp, err := security.Generate(u.JWT, user.ID.Hex(), user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "sign token")
	}
	return &AuthResult{Token: token, Role: user.Role, Expire: exp}, nil
}

// FindByID backs the auth middleware's verified-user check.
func (u *Users) FindByID(ctx context.Context, id string) (*usermodel.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var user usermodel.User
	err = u.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}

func (u *Users) ListAll(ctx context.Context) ([]usermodel.User, error) {
	return u.list(ctx, bson.M{})
}

func (u *Users) ListEmployees(ctx context.Context) ([]usermodel.User, error) {
	return u.list(ctx, bson.M{usermodel.UserFieldRole: usermodel.RoleEmployee})
}

// SearchEmployees matches name or email by case-insensitive substring.
func (u *Users) SearchEmployees(ctx context.Context, q string) ([]usermodel.User, error) {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	return u.list(ctx, bson.M{
		usermodel.UserFieldRole: usermodel.RoleEmployee,
		"$or": bson.A{
			bson.M{usermodel.UserFieldName: re},
			bson.M{usermodel.UserFieldEmail: re},
		},
	})
}

func (u *Users) list(ctx context.Context, filter bson.M) ([]usermodel.User, error) {
	cur, err := u.coll().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "create_time", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	defer cur.Close(ctx)

	var out []usermodel.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	return out, nil
}

func (u *Users) Verify(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		e := errs.ErrArgs.WithDetail("invalid user id")
		return &e
	}
	res, err := u.coll().UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{usermodel.UserFieldIsVerified: true}},
	)
	if err != nil {
		return errors.Wrap(err, "verify user")
	}
	if res.MatchedCount == 0 {
		return &errs.ErrRecordNotFound
	}
	return nil
}

func (u *Users) Remove(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		e := errs.ErrArgs.WithDetail("invalid user id")
		return &e
	}
	res, err := u.coll().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "remove user")
	}
	if res.DeletedCount == 0 {
		return &errs.ErrRecordNotFound
	}
	return nil
}

// Create is the admin path: the account comes out pre-verified.
func (u *Users) Create(ctx context.Context, email, password, name, role string) (*usermodel.User, error) {
	if role != usermodel.RoleAdmin && role != usermodel.RoleEmployee {
		e := errs.ErrArgs.WithDetail("role must be admin or employee")
		return nil, &e
	}
	count, err := u.coll().CountDocuments(ctx, bson.M{usermodel.UserFieldEmail: email})
	if err != nil {
		return nil, errors.Wrap(err, "check existing user")
	}
	if count > 0 {
		e := errs.ErrDuplicate.WithDetail("email already registered")
		return nil, &e
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	user := usermodel.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		IsVerified:   true,
		CreateTime:   time.Now(),
	}
	res, err := u.coll().InsertOne(ctx, &user)
	if err != nil {
		return nil, errors.Wrap(err, "insert user")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return &user, nil
}
