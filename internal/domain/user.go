package domain

import "time"

// Default role and status assigned to users created on first verification.
const (
	RolePatient  = "patient"
	StatusActive = "ACTIVE"
)

// User is the account resolved (or created) after a successful phone
// verification. PK: phone_number — the natural key, so first-time creation
// is a single conditional put. GSI: user_id-index.
type User struct {
	PhoneNumber string    `json:"phone_number" dynamodbav:"phone_number"`
	UserID      string    `json:"id" dynamodbav:"user_id"`
	Role        string    `json:"role" dynamodbav:"role"`
	Status      string    `json:"status" dynamodbav:"status"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`
}
