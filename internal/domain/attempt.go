package domain

// AttemptType distinguishes send and verify calls in the ledger.
type AttemptType string

const (
	AttemptSend   AttemptType = "SEND"
	AttemptVerify AttemptType = "VERIFY"
)

// AttemptStatus is the recorded outcome of a single call.
type AttemptStatus string

const (
	AttemptSuccess AttemptStatus = "SUCCESS"
	AttemptFailed  AttemptStatus = "FAILED"
	AttemptBlocked AttemptStatus = "BLOCKED"
)

// OTPAttempt is one append-only audit row. Rows are never updated or
// deleted; the rate limiter counts recent SEND rows per phone.
// PK: attempt_id (ULID). GSI: phone_number-index (phone_number, created_at).
type OTPAttempt struct {
	AttemptID    string        `json:"id" dynamodbav:"attempt_id"`
	PhoneNumber  string        `json:"phone_number" dynamodbav:"phone_number"`
	IPAddress    string        `json:"ip_address" dynamodbav:"ip_address"` // "unknown" when unresolvable
	Type         AttemptType   `json:"attempt_type" dynamodbav:"attempt_type"`
	Status       AttemptStatus `json:"status" dynamodbav:"status"`
	ErrorMessage string        `json:"error_message,omitempty" dynamodbav:"error_message"`
	CreatedAt    int64         `json:"created_at" dynamodbav:"created_at"` // Unix seconds, GSI range key
}
