package department

import "time"

type Department struct {
	ID        int64
	Name      string
	CreatedAt time.Time

	// Aggregate
	MemberCount int64
}
