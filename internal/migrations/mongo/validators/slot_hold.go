package validators

import "go.mongodb.org/mongo-driver/bson"

var SlotHoldValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "user_id", "mentor_id", "date", "time_slot", "expires_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"user_id":    bson.M{"bsonType": "string"},
			"mentor_id":  bson.M{"bsonType": "string"},
			"date":       bson.M{"bsonType": "date"},
			"time_slot":  timeSlotSchema,
			"expires_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
