package domain

// GroupingMode selects the dimension tickets are bucketed by.
// The string values are the persisted preference encoding.
type GroupingMode string

const (
	GroupByUser     GroupingMode = "user"
	GroupByStatus   GroupingMode = "status"
	GroupByPriority GroupingMode = "priority"
)

// GroupingModes lists the grouping modes in display order.
var GroupingModes = []GroupingMode{GroupByUser, GroupByStatus, GroupByPriority}

// ParseGroupingMode maps a persisted value to a GroupingMode.
func ParseGroupingMode(raw string) (GroupingMode, bool) {
	for _, mode := range GroupingModes {
		if string(mode) == raw {
			return mode, true
		}
	}
	return "", false
}

// Title is the label shown in selection controls.
func (m GroupingMode) Title() string {
	switch m {
	case GroupByUser:
		return "User"
	case GroupByStatus:
		return "Status"
	case GroupByPriority:
		return "Priority"
	default:
		return string(m)
	}
}

// OrderingMode selects how tickets are sorted inside each group.
type OrderingMode string

const (
	OrderByTitle    OrderingMode = "title"
	OrderByPriority OrderingMode = "priority"
)

// OrderingModes lists the ordering modes in display order.
var OrderingModes = []OrderingMode{OrderByTitle, OrderByPriority}

// ParseOrderingMode maps a persisted value to an OrderingMode.
func ParseOrderingMode(raw string) (OrderingMode, bool) {
	for _, mode := range OrderingModes {
		if string(mode) == raw {
			return mode, true
		}
	}
	return "", false
}

// Title is the label shown in selection controls.
func (m OrderingMode) Title() string {
	switch m {
	case OrderByTitle:
		return "Title"
	case OrderByPriority:
		return "Priority"
	default:
		return string(m)
	}
}
