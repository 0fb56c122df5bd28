package domain

// statusTransitions is the contract lifecycle table:
// draft -> pending_signature -> signed -> {pending_verification <-> pending_payment_proof} -> active -> completed,
// with cancelled reachable from any non-terminal status by admin action.
var statusTransitions = map[string][]string{
	StatusDraft:               {StatusPendingSignature, StatusSigned, StatusCancelled},
	StatusPendingSignature:    {StatusSigned, StatusCancelled},
	StatusSigned:              {StatusPendingVerification, StatusActive, StatusCancelled},
	StatusPendingVerification: {StatusActive, StatusPendingPaymentProof, StatusCancelled},
	StatusPendingPaymentProof: {StatusPendingVerification, StatusCancelled},
	StatusActive:              {StatusCompleted, StatusCancelled},
	StatusCompleted:           {},
	StatusCancelled:           {},
}

// CanTransition reports whether status may move from one value to another.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist for status.
func IsTerminal(status string) bool {
	return len(statusTransitions[status]) == 0
}

// IsEditable reports whether contract terms may still be modified.
// Once a contract leaves draft/pending_signature its terms are immutable.
func IsEditable(status string) bool {
	return status == StatusDraft || status == StatusPendingSignature
}

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}
