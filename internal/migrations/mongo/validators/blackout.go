package validators

import "go.mongodb.org/mongo-driver/bson"

var BlackoutValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"date", "time_slots", "is_full_day", "created_by", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"date": bson.M{"bsonType": "date"},
			"time_slots": bson.M{
				"bsonType":    "array",
				"uniqueItems": true,
				"maxItems":    9,
				"items":       timeSlotSchema,
			},
			"is_full_day": bson.M{"bsonType": "bool"},
			"reason": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},
			"created_by": bson.M{"bsonType": "string"},
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}
