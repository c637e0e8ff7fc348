package model

// Shared record types for the five Bravo tables. JSON tags keep the payloads
// wire-compatible with rows written by earlier versions of the app, so field
// names stay camelCase.

// User is a registered account. Professionals carry a wallet balance that is
// credited exclusively by the escrow release step.
type User struct {
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Piva     string `json:"piva,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	City     string `json:"city,omitempty"`
	Password string `json:"password,omitempty"`

	IsVerified         bool    `json:"isVerified"`
	VerificationStatus string  `json:"verificationStatus,omitempty"` // none, pending, verified, rejected
	WalletBalance      float64 `json:"walletBalance"`
	Availability       string  `json:"availability,omitempty"`
}

// Public returns a copy safe to return from the API.
func (u User) Public() User {
	u.Password = ""
	return u
}

// Job statuses.
const (
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
)

// Escrow statuses.
const (
	EscrowHeld     = "held"
	EscrowReleased = "released"
)

// Job is an accepted engagement between one client and one professional.
// Funds are held in escrow from acceptance until both parties confirm
// completion.
type Job struct {
	ID               string `json:"id"`
	ProfessionalName string `json:"professionalName"`
	ClientName       string `json:"clientName"`
	Status           string `json:"status"` // in_progress, completed
	ClientCompleted  bool   `json:"clientCompleted"`
	ProCompleted     bool   `json:"proCompleted"`
	ClientReviewed   bool   `json:"clientReviewed"`
	CreatedAt        string `json:"createdAt"`
	CompletedAt      string `json:"completedAt,omitempty"`
	RequestID        string `json:"requestId,omitempty"`
	WorkReport       string `json:"workReport,omitempty"`

	Price            float64 `json:"price"`
	EscrowStatus     string  `json:"escrowStatus"` // held, released
	CommissionAmount float64 `json:"commissionAmount"`
}

// JobRequest statuses.
const (
	RequestOpen       = "open"
	RequestInProgress = "in_progress"
	RequestCompleted  = "completed"
)

// JobRequest is a client's posted need. Candidates accumulate while the
// request is open; assignedPro is set exactly when the request leaves open.
type JobRequest struct {
	ID           string   `json:"id"`
	ClientID     string   `json:"clientId"`
	ClientName   string   `json:"clientName"`
	ClientAvatar string   `json:"clientAvatar,omitempty"`
	Category     string   `json:"category"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Location     string   `json:"location,omitempty"`
	Budget       string   `json:"budget,omitempty"`
	Images       []string `json:"images,omitempty"`
	Status       string   `json:"status"` // open, in_progress, completed
	Candidates   []string `json:"candidates"`
	AssignedPro  string   `json:"assignedPro,omitempty"`
	CreatedAt    string   `json:"createdAt"`
}

// HasCandidate reports whether proName already applied.
func (r *JobRequest) HasCandidate(proName string) bool {
	for _, c := range r.Candidates {
		if c == proName {
			return true
		}
	}
	return false
}

// Review is a client's feedback on a professional, tied by name match to a
// completed job rather than a foreign key.
type Review struct {
	ID               string `json:"id"`
	ProfessionalName string `json:"professionalName"`
	ClientName       string `json:"clientName"`
	Rating           int    `json:"rating"`
	Text             string `json:"text"`
	Date             string `json:"date"`
	Response         string `json:"response,omitempty"`
	JobTitle         string `json:"jobTitle,omitempty"`
}

// ChatMessage is a single message inside a thread.
type ChatMessage struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	FromMe    bool   `json:"fromMe"`
	Timestamp string `json:"timestamp"`
	IsSystem  bool   `json:"isSystem,omitempty"`
}

// ChatThread is a conversation between a client and a professional.
type ChatThread struct {
	ID               string        `json:"id"`
	ProfessionalName string        `json:"professionalName"`
	ClientName       string        `json:"clientName,omitempty"`
	Avatar           string        `json:"avatar,omitempty"`
	LastMessage      string        `json:"lastMessage,omitempty"`
	Time             string        `json:"time,omitempty"`
	Messages         []ChatMessage `json:"messages"`
	RelatedRequestID string        `json:"relatedRequestId,omitempty"`
}
