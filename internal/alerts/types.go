package alerts

import "time"

// Task type constants
const (
	TaskJobApplied     = "job:applied"
	TaskJobAccepted    = "job:accepted"
	TaskJobSettled     = "job:settled"
	TaskReviewReceived = "review:received"
)

// EmailEnvelope carries the rendered message.
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// JobAppliedPayload notifies the client that a professional applied to
// their request.
type JobAppliedPayload struct {
	RequestID        string        `json:"request_id"`
	ProfessionalName string        `json:"professional_name"`
	ClientEmail      string        `json:"client_email"`
	Envelope         EmailEnvelope `json:"envelope"`
	SentAt           time.Time     `json:"sent_at"`
}

// JobAcceptedPayload notifies the professional that their proposal was
// accepted and funds are held in escrow.
type JobAcceptedPayload struct {
	JobID            string        `json:"job_id"`
	RequestID        string        `json:"request_id"`
	ProfessionalName string        `json:"professional_name"`
	ClientName       string        `json:"client_name"`
	Price            float64       `json:"price"`
	Envelope         EmailEnvelope `json:"envelope"`
	SentAt           time.Time     `json:"sent_at"`
}

// JobSettledPayload notifies the professional that the job settled and the
// escrow was released to their wallet.
type JobSettledPayload struct {
	JobID            string        `json:"job_id"`
	ProfessionalName string        `json:"professional_name"`
	Commission       float64       `json:"commission"`
	ProEarning       float64       `json:"pro_earning"`
	Envelope         EmailEnvelope `json:"envelope"`
	SentAt           time.Time     `json:"sent_at"`
}

// ReviewReceivedPayload notifies the professional of new client feedback.
type ReviewReceivedPayload struct {
	ReviewID         string        `json:"review_id"`
	ProfessionalName string        `json:"professional_name"`
	ClientName       string        `json:"client_name"`
	Rating           int           `json:"rating"`
	Envelope         EmailEnvelope `json:"envelope"`
	SentAt           time.Time     `json:"sent_at"`
}
