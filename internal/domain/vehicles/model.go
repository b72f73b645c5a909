package vehicles

import "time"

type Vehicle struct {
	ID        int64
	Plate     string
	Make      string
	Model     string
	Year      int
	OwnerName string
	Phone     string
	CreatedAt time.Time
}
