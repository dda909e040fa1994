package domain

import "sync"

// ConfirmationState is the lifecycle of a ConfirmationRequest.
type ConfirmationState string

const (
	ConfirmationPending   ConfirmationState = "pending"
	ConfirmationApproved  ConfirmationState = "approved"
	ConfirmationCancelled ConfirmationState = "cancelled"
	// ConfirmationExpired: a simple confirm that could never receive an answer.
	// Treated as "no consent" (countdown expiry resolves to Approved instead).
	ConfirmationExpired ConfirmationState = "expired"
)

// Answer is a user response fed into a pending confirmation.
type Answer int

const (
	// AnswerYes approves a simple confirm, or runs a countdown immediately.
	AnswerYes Answer = iota + 1
	// AnswerNo declines a simple confirm.
	AnswerNo
	// AnswerCancel aborts either kind of confirmation.
	AnswerCancel
)

func (a Answer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerNo:
		return "no"
	case AnswerCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// ConfirmationRequest gates one action. Created per invocation, resolved once.
type ConfirmationRequest struct {
	ID                string
	Title             string
	Message           string
	RequiresCountdown bool
	CountdownSeconds  int

	mu    sync.Mutex
	state ConfirmationState
}

// NewConfirmationRequest creates a pending request.
func NewConfirmationRequest(id, title, message string, countdown bool) *ConfirmationRequest {
	r := &ConfirmationRequest{
		ID:                id,
		Title:             title,
		Message:           message,
		RequiresCountdown: countdown,
		state:             ConfirmationPending,
	}
	if countdown {
		r.CountdownSeconds = DefaultCountdownSeconds
	}
	return r
}

// State returns the current state.
func (r *ConfirmationRequest) State() ConfirmationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Resolve moves a pending request to a final state. Only the first call wins;
// later calls return ErrAlreadyResolved and leave the state untouched.
func (r *ConfirmationRequest) Resolve(s ConfirmationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != ConfirmationPending {
		return ErrAlreadyResolved
	}
	r.state = s
	return nil
}

// ActionEventKind tags events on an action subscription.
type ActionEventKind string

const (
	EventTick      ActionEventKind = "tick"
	EventResolved  ActionEventKind = "resolved"
	EventMessage   ActionEventKind = "message"
	EventCompleted ActionEventKind = "completed"
)

// ActionEvent is streamed to the presentation layer while an action runs.
type ActionEvent struct {
	Kind             ActionEventKind
	RequestID        string
	Intent           Intent
	SecondsRemaining int               // EventTick
	State            ConfirmationState // EventResolved
	Message          *UserMessage      // EventMessage
	Outcome          *ActionOutcome    // EventCompleted
	Err              error             // EventCompleted, when the action was refused
}

// ActionOutcome is the final result of one orchestrated action.
type ActionOutcome struct {
	Intent       Intent
	RequestID    string
	Confirmation ConfirmationState
	Executed     bool
	Unsupported  bool
	Result       *ExecutionResult
	Message      *UserMessage
	Snapshot     *InterfaceSnapshot // Network intents: the state probed after execution
}
