package board

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/spec-kit/ticket-board/internal/domain"
)

// Group is one labeled column of the board.
type Group struct {
	Label   string
	Tickets []domain.Ticket
}

// GroupedView is the ordered result of grouping and ordering a ticket set.
// It is derived data: fully determined by its inputs and never persisted.
// Views handed out by Memo are shared and must be treated as read-only.
type GroupedView struct {
	Grouping domain.GroupingMode
	Ordering domain.OrderingMode
	Groups   []Group
}

// Labels returns the group labels in board order.
func (v GroupedView) Labels() []string {
	labels := make([]string, 0, len(v.Groups))
	for _, group := range v.Groups {
		labels = append(labels, group.Label)
	}
	return labels
}

// Group returns the tickets of the group with the given label.
func (v GroupedView) Group(label string) ([]domain.Ticket, bool) {
	for _, group := range v.Groups {
		if group.Label == label {
			return group.Tickets, true
		}
	}
	return nil, false
}

// TicketCount sums the tickets across all groups.
func (v GroupedView) TicketCount() int {
	total := 0
	for _, group := range v.Groups {
		total += len(group.Tickets)
	}
	return total
}

// Header renders the column title of a group in this view.
func (v GroupedView) Header(label string) string {
	return Header(label, v.Grouping)
}

// Header renders the column title for a group label. Priority groups are keyed by
// the raw numeric value and rendered through the priority label table; labels
// outside the table render empty. Other modes use the label itself.
func Header(label string, grouping domain.GroupingMode) string {
	if grouping != domain.GroupByPriority {
		return label
	}
	priority, err := domain.ParsePriority(label)
	if err != nil {
		return ""
	}
	return priority.Label()
}

// ComputeGroupedView buckets tickets by the grouping mode and sorts every bucket by
// the ordering mode. It has no failure path: unresolvable users, unknown statuses
// and out-of-table priorities degrade to placeholder labels. Unknown modes fall
// back to the preference defaults (user, title). The input slices are not modified.
func ComputeGroupedView(tickets []domain.Ticket, users []domain.User, grouping domain.GroupingMode, ordering domain.OrderingMode) GroupedView {
	if _, ok := domain.ParseGroupingMode(string(grouping)); !ok {
		grouping = domain.GroupByUser
	}
	if _, ok := domain.ParseOrderingMode(string(ordering)); !ok {
		ordering = domain.OrderByTitle
	}

	var groups []Group
	switch grouping {
	case domain.GroupByStatus:
		groups = groupByStatus(tickets)
	case domain.GroupByPriority:
		groups = groupByPriority(tickets)
	default:
		groups = groupByUser(tickets, users)
	}

	compare := comparator(ordering)
	for i := range groups {
		slices.SortStableFunc(groups[i].Tickets, compare)
	}

	return GroupedView{Grouping: grouping, Ordering: ordering, Groups: groups}
}

// buckets collects groups in first-seen order.
type buckets struct {
	index  map[string]int
	groups []Group
}

func newBuckets() *buckets {
	return &buckets{index: make(map[string]int), groups: []Group{}}
}

// ensure creates an empty group for label if it does not exist yet.
func (b *buckets) ensure(label string) int {
	if i, ok := b.index[label]; ok {
		return i
	}
	b.index[label] = len(b.groups)
	b.groups = append(b.groups, Group{Label: label, Tickets: []domain.Ticket{}})
	return len(b.groups) - 1
}

func (b *buckets) add(label string, ticket domain.Ticket) {
	i := b.ensure(label)
	b.groups[i].Tickets = append(b.groups[i].Tickets, ticket)
}

func groupByUser(tickets []domain.Ticket, users []domain.User) []Group {
	names := make(map[string]string, len(users))
	for _, user := range users {
		// first match wins on duplicate ids
		if _, seen := names[user.ID]; !seen {
			names[user.ID] = user.Name
		}
	}

	b := newBuckets()
	for _, ticket := range tickets {
		label, ok := names[ticket.UserID]
		if !ok {
			label = domain.UnknownUser
		}
		b.add(label, ticket)
	}
	return b.groups
}

// groupByStatus always yields the five vocabulary groups in vocabulary order,
// followed by StatusOther when any ticket carries an unrecognized status.
func groupByStatus(tickets []domain.Ticket) []Group {
	b := newBuckets()
	for _, status := range domain.StatusVocabulary {
		b.ensure(string(status))
	}
	for _, ticket := range tickets {
		label := domain.StatusOther
		if ticket.Status.Known() {
			label = string(ticket.Status)
		}
		b.add(label, ticket)
	}
	return b.groups
}

// groupByPriority yields one group per distinct priority value, ascending.
func groupByPriority(tickets []domain.Ticket) []Group {
	byPriority := make(map[domain.Priority][]domain.Ticket)
	for _, ticket := range tickets {
		byPriority[ticket.Priority] = append(byPriority[ticket.Priority], ticket)
	}

	levels := make([]domain.Priority, 0, len(byPriority))
	for level := range byPriority {
		levels = append(levels, level)
	}
	slices.Sort(levels)

	groups := make([]Group, 0, len(levels))
	for _, level := range levels {
		groups = append(groups, Group{Label: level.String(), Tickets: byPriority[level]})
	}
	return groups
}

func comparator(ordering domain.OrderingMode) func(a, b domain.Ticket) int {
	if ordering == domain.OrderByPriority {
		return func(a, b domain.Ticket) int {
			return cmp.Compare(b.Priority, a.Priority)
		}
	}
	// A collator is not safe for concurrent use; one per computation.
	collator := collate.New(language.English)
	return func(a, b domain.Ticket) int {
		return collator.CompareString(a.Title, b.Title)
	}
}
