package domain

// InterviewState is the controller state of a session
type InterviewState string

const (
	// StateAwaitingAgent - the agent is about to reply for the current section
	StateAwaitingAgent InterviewState = "awaiting_agent"
	// StateAwaitingPatient - waiting for the next inbound utterance
	StateAwaitingPatient InterviewState = "awaiting_patient"
	// StateFinished - every section is complete
	StateFinished InterviewState = "finished"
)

// DialogueRole tags who produced a turn
type DialogueRole string

const (
	// RolePatient - inbound utterance
	RolePatient DialogueRole = "patient"
	// RoleAgent - conversational agent reply
	RoleAgent DialogueRole = "agent"
)
