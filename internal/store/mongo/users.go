package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"TODOAPP_BACK-END/internal/common"
	"TODOAPP_BACK-END/internal/models"
)

type tokenDoc struct {
	Access string `bson:"access"`
	Token  string `bson:"token"`
}

type userDoc struct {
	ID       bson.ObjectID `bson:"_id"`
	Email    string        `bson:"email"`
	Password string        `bson:"password"`
	Tokens   []tokenDoc    `bson:"tokens"`
}

func (d *userDoc) model() *models.User {
	u := &models.User{ID: d.ID.Hex(), Email: d.Email, PasswordHash: d.Password}
	for _, t := range d.Tokens {
		u.Tokens = append(u.Tokens, models.Token{Access: t.Access, Token: t.Token})
	}
	return u
}

// UserRepository stores users in the users collection.
type UserRepository struct {
	coll *mongo.Collection
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	oid, err := bson.ObjectIDFromHex(user.ID)
	if err != nil {
		return common.ErrInvalidID
	}
	doc := userDoc{ID: oid, Email: user.Email, Password: user.PasswordHash, Tokens: []tokenDoc{}}
	for _, t := range user.Tokens {
		doc.Tokens = append(doc.Tokens, tokenDoc{Access: t.Access, Token: t.Token})
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByToken(ctx context.Context, id, access, token string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{
		"_id":    oid,
		"tokens": bson.M{"$elemMatch": bson.M{"access": access, "token": token}},
	})
}

func (r *UserRepository) AddToken(ctx context.Context, userID string, token models.Token) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"tokens": tokenDoc{Access: token.Access, Token: token.Token}}},
	)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *UserRepository) RemoveToken(ctx context.Context, userID, token string) error {
	oid, err := objectID(userID)
	if err != nil {
		return nil
	}
	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"tokens": bson.M{"token": token}}},
	)
	if err != nil {
		return translate(err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}
