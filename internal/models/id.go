package models

import "go.mongodb.org/mongo-driver/v2/bson"

// NewID returns a fresh 24-character hex ObjectID.
func NewID() string {
	return bson.NewObjectID().Hex()
}

// IsValidID reports whether id has the ObjectID shape accepted by every store.
func IsValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}
