package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		actor    Actor
		want     bool
	}{
		{StatusPending, StatusReview, ActorAssignee, true},
		{StatusRevision, StatusReview, ActorAssignee, true},
		{StatusReview, StatusCompleted, ActorAdmin, true},
		{StatusReview, StatusRevision, ActorAdmin, true},

		{StatusPending, StatusReview, ActorAdmin, false},
		{StatusReview, StatusCompleted, ActorAssignee, false},
		{StatusReview, StatusRevision, ActorAssignee, false},
		{StatusPending, StatusCompleted, ActorAdmin, false},
		{StatusRevision, StatusCompleted, ActorAdmin, false},
		{StatusCompleted, StatusReview, ActorAssignee, false},
		{StatusCompleted, StatusRevision, ActorAdmin, false},
		{StatusReview, StatusReview, ActorAssignee, false},
	}

	for _, tt := range tests {
		got := CanTransition(tt.from, tt.to, tt.actor)
		assert.Equal(t, tt.want, got, "%s -> %s by %s", tt.from, tt.to, tt.actor)
	}
}

func TestReviewDecision_Target(t *testing.T) {
	assert.Equal(t, StatusCompleted, DecisionApprove.Target())
	assert.Equal(t, StatusRevision, DecisionRevise.Target())
}
