package validators

import "go.mongodb.org/mongo-driver/bson"

var MentorValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "bio", "is_active", "order", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
			"bio": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},
			"photo":     bson.M{"bsonType": "string"},
			"linkedin":  bson.M{"bsonType": "string"},
			"instagram": bson.M{"bsonType": "string"},
			"is_active": bson.M{"bsonType": "bool"},
			"order": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  1000,
			},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
