package model

import "time"

type Mentor struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Bio       string    `json:"bio" bson:"bio" validate:"required,max=500"`
	Photo     string    `json:"photo,omitempty" bson:"photo,omitempty" validate:"omitempty,url"`
	LinkedIn  string    `json:"linkedin,omitempty" bson:"linkedin,omitempty" validate:"omitempty,url"`
	Instagram string    `json:"instagram,omitempty" bson:"instagram,omitempty" validate:"omitempty,url"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	Order     int       `json:"order" bson:"order" validate:"min=0,max=1000"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type MentorUpdate struct {
	Name      string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Bio       string  `json:"bio,omitempty" validate:"omitempty,max=500"`
	Photo     string  `json:"photo,omitempty" validate:"omitempty,url"`
	LinkedIn  string  `json:"linkedin,omitempty" validate:"omitempty,url"`
	Instagram string  `json:"instagram,omitempty" validate:"omitempty,url"`
	IsActive  *bool   `json:"is_active,omitempty"`
	Order     *int    `json:"order,omitempty" validate:"omitempty,min=0,max=1000"`
}
