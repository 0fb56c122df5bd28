package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusDraft, StatusPendingSignature, true},
		{StatusDraft, StatusSigned, true},
		{StatusDraft, StatusActive, false},
		{StatusPendingSignature, StatusSigned, true},
		{StatusPendingSignature, StatusDraft, false},
		{StatusSigned, StatusPendingVerification, true},
		{StatusSigned, StatusActive, true},
		{StatusPendingVerification, StatusActive, true},
		{StatusPendingVerification, StatusPendingPaymentProof, true},
		{StatusPendingPaymentProof, StatusPendingVerification, true},
		{StatusPendingPaymentProof, StatusActive, false},
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusSigned, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusDraft, false},
		{"bogus", StatusDraft, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCancelReachableFromEveryNonTerminalStatus(t *testing.T) {
	for status := range statusTransitions {
		if IsTerminal(status) {
			continue
		}
		assert.True(t, CanTransition(status, StatusCancelled), "cancel from %s", status)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusDraft))
	assert.False(t, IsTerminal(StatusActive))
}

func TestIsEditable(t *testing.T) {
	assert.True(t, IsEditable(StatusDraft))
	assert.True(t, IsEditable(StatusPendingSignature))
	for _, status := range []string{
		StatusSigned, StatusPendingVerification, StatusPendingPaymentProof,
		StatusActive, StatusCompleted, StatusCancelled,
	} {
		assert.False(t, IsEditable(status), status)
	}
}

func TestValidStatus(t *testing.T) {
	for status := range statusTransitions {
		assert.True(t, ValidStatus(status))
	}
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidStatus(""))
}
