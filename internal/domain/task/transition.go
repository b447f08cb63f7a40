package task

// Actor is the party attempting a status change.
type Actor string

const (
	ActorAssignee Actor = "assignee"
	ActorAdmin    Actor = "admin"
)

type transition struct {
	from, to Status
}

var allowedTransitions = map[transition]Actor{
	{StatusPending, StatusReview}:   ActorAssignee,
	{StatusRevision, StatusReview}:  ActorAssignee,
	{StatusReview, StatusCompleted}: ActorAdmin,
	{StatusReview, StatusRevision}:  ActorAdmin,
}

// CanTransition reports whether actor may move a task from one status to another.
func CanTransition(from, to Status, actor Actor) bool {
	allowed, ok := allowedTransitions[transition{from, to}]
	return ok && allowed == actor
}
