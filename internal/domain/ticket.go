package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TicketStatus is the workflow state reported by the remote board.
// Values outside StatusVocabulary are kept as-is.
type TicketStatus string

const (
	TicketStatusBacklog    TicketStatus = "Backlog"
	TicketStatusTodo       TicketStatus = "Todo"
	TicketStatusInProgress TicketStatus = "In progress"
	TicketStatusDone       TicketStatus = "Done"
	TicketStatusCancelled  TicketStatus = "Cancelled"
)

// StatusOther labels the status group for unrecognized statuses.
const StatusOther = "Other"

// StatusVocabulary is the fixed, ordered set of known statuses.
var StatusVocabulary = []TicketStatus{
	TicketStatusBacklog,
	TicketStatusTodo,
	TicketStatusInProgress,
	TicketStatusDone,
	TicketStatusCancelled,
}

// Known reports whether the status belongs to StatusVocabulary.
func (s TicketStatus) Known() bool {
	return s.Index() >= 0
}

// Index returns the position of the status in StatusVocabulary, or -1.
func (s TicketStatus) Index() int {
	for i, known := range StatusVocabulary {
		if s == known {
			return i
		}
	}
	return -1
}

// Priority is the ordinal urgency level of a ticket, 0 (none) through 4 (urgent).
type Priority int

const (
	PriorityNone   Priority = 0
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
	PriorityUrgent Priority = 4
)

var priorityLabels = map[Priority]string{
	PriorityNone:   "No Priority",
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

// Label returns the human readable name of the level, or "" when the value is outside 0..4.
func (p Priority) Label() string {
	return priorityLabels[p]
}

// Valid reports whether the value is inside the 0..4 range.
func (p Priority) Valid() bool {
	return p >= PriorityNone && p <= PriorityUrgent
}

// String renders the raw numeric value; it is the grouping key for priority columns.
func (p Priority) String() string {
	return strconv.Itoa(int(p))
}

// ParsePriority converts a numeric string such as "3" into a Priority.
func ParsePriority(raw string) (Priority, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid priority %q: %w", raw, err)
	}
	return Priority(value), nil
}

// Ticket is a unit of work fetched from the remote board. Tickets are never mutated after ingestion.
type Ticket struct {
	ID       string
	Title    string
	Status   TicketStatus
	Priority Priority
	UserID   string
}
