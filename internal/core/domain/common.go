package domain

import "time"

// AuditFields holds the timestamps every stored account carries.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
