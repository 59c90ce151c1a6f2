package model

type BookingCounts struct {
	Total int64 `json:"total"`
	Today int64 `json:"today"`
	Week  int64 `json:"week"`
	Month int64 `json:"month"`
}

type Revenue struct {
	Total int64 `json:"total"`
	Month int64 `json:"month"`
}

type MentorStat struct {
	MentorID   string `json:"mentor_id" bson:"_id"`
	MentorName string `json:"mentor_name" bson:"mentor_name"`
	Bookings   int64  `json:"bookings" bson:"bookings"`
	Revenue    int64  `json:"revenue" bson:"revenue"`
}

type SlotStat struct {
	TimeSlot string `json:"time_slot" bson:"_id"`
	Bookings int64  `json:"bookings" bson:"bookings"`
}

type Analytics struct {
	Bookings     BookingCounts `json:"bookings"`
	Revenue      Revenue       `json:"revenue"`
	MentorStats  []MentorStat  `json:"mentor_stats"`
	PopularSlots []SlotStat    `json:"popular_slots"`
}
