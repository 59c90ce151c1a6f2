package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"mentor_id",
			"date",
			"time_slot",
			"status",
			"active",
			"amount",
			"currency",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"mentor_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"time_slot": timeSlotSchema,

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"completed",
					"cancelled",
				},
			},

			"active": bson.M{
				"bsonType": "bool",
			},

			"amount": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"currency": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 3,
			},

			"payment_ref": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"order_id":   bson.M{"bsonType": "string"},
					"payment_id": bson.M{"bsonType": "string"},
				},
			},

			"mentor_remark": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

// timeSlotSchema matches the "HH:MM-HH:MM" labels of the slot catalog.
var timeSlotSchema = bson.M{
	"bsonType": "string",
	"pattern":  `^([01][0-9]|2[0-3]):[0-5][0-9]-([01][0-9]|2[0-3]):[0-5][0-9]$`,
}
