package model

// TimeSlot is a derived, per-request view of one bookable interval.
// It is never persisted; the engine recomputes the grid on every call.
type TimeSlot struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Available bool   `json:"available"`
}

// CapacityInfo aggregates a day's slot grid for a department.
type CapacityInfo struct {
	TotalCapacity int `json:"totalCapacity"`
	Booked        int `json:"booked"`
	Available     int `json:"available"`
	Percentage    int `json:"percentage"`
}
