package domain

import "time"

// Facility represents a sports facility with one or more courts
type Facility struct {
	ID        int64
	Name      string
	Address   string
	Phone     *string
	Email     *string
	CreatedAt time.Time
}

// Court represents a bookable court inside a facility
type Court struct {
	ID         int64
	FacilityID int64
	Name       string
	Type       string // Tennis, Basketball, Soccer, ...
	BasePrice  float64
	Indoor     bool
	IsActive   bool
}
