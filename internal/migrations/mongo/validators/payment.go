package validators

import "go.mongodb.org/mongo-driver/bson"

var PaymentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"order_id",
			"amount",
			"currency",
			"status",
			"mentor_id",
			"date",
			"time_slot",
			"created_at",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"user_id":    bson.M{"bsonType": "string"},
			"booking_id": bson.M{"bsonType": "string"},
			"order_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"payment_id": bson.M{"bsonType": "string"},
			"signature":  bson.M{"bsonType": "string"},
			"amount": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
			"currency": bson.M{"bsonType": "string"},
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"pending", "success", "failed", "refunded"},
			},
			"mentor_id":  bson.M{"bsonType": "string"},
			"date":       bson.M{"bsonType": "date"},
			"time_slot":  timeSlotSchema,
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}
