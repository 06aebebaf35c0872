package dto

import "time"

// EnrollmentReceipt is returned by the stub for an accepted enrollment.
type EnrollmentReceipt struct {
	EnrollmentID string    `json:"enrollment_id"`
	RequestID    string    `json:"request_id"`
	Message      string    `json:"message"`
	BatchID      int       `json:"batch_id"`
	Batch        string    `json:"batch"`
	Month        string    `json:"month"`
	ReceivedAt   time.Time `json:"received_at"`
}
