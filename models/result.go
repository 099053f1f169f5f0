package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// InsertResult, UpdateResult and DeleteResult are the storage acknowledgements
// returned to clients, shaped like the driver's own results.
type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

func Inserted(id primitive.ObjectID) InsertResult {
	return InsertResult{Acknowledged: true, InsertedID: id}
}
