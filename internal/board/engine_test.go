package board

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/spec-kit/ticket-board/internal/domain"
)

func scenarioTickets() []domain.Ticket {
	return []domain.Ticket{
		{ID: "1", Title: "B", Status: domain.TicketStatusTodo, Priority: 2, UserID: "1"},
		{ID: "2", Title: "A", Status: domain.TicketStatusTodo, Priority: 4, UserID: "1"},
	}
}

func scenarioUsers() []domain.User {
	return []domain.User{{ID: "1", Name: "Alice"}}
}

func ids(tickets []domain.Ticket) []string {
	out := make([]string, 0, len(tickets))
	for _, ticket := range tickets {
		out = append(out, ticket.ID)
	}
	return out
}

// randomTickets builds a deterministic pseudo-random ticket set that mixes known
// and unknown users, statuses and priorities.
func randomTickets(seed int64, n int) ([]domain.Ticket, []domain.User) {
	rng := rand.New(rand.NewSource(seed))
	statuses := []domain.TicketStatus{"Backlog", "Todo", "In progress", "Done", "Cancelled", "Blocked", ""}
	titles := []string{"alpha", "Beta", "gamma", "Delta", "éclair", "Zulu", "apple", "Apple"}
	users := []domain.User{{ID: "usr-1", Name: "Anoop"}, {ID: "usr-2", Name: "Yogesh"}, {ID: "usr-3", Name: "Shankar"}}

	tickets := make([]domain.Ticket, 0, n)
	for i := 0; i < n; i++ {
		tickets = append(tickets, domain.Ticket{
			ID:       fmt.Sprintf("CAM-%d", i),
			Title:    titles[rng.Intn(len(titles))],
			Status:   statuses[rng.Intn(len(statuses))],
			Priority: domain.Priority(rng.Intn(7) - 1),
			UserID:   fmt.Sprintf("usr-%d", rng.Intn(5)),
		})
	}
	return tickets, users
}

func allModes() [][2]string {
	var modes [][2]string
	for _, g := range domain.GroupingModes {
		for _, o := range domain.OrderingModes {
			modes = append(modes, [2]string{string(g), string(o)})
		}
	}
	return modes
}

func TestComputeGroupedView_ScenarioUserTitle(t *testing.T) {
	t.Parallel()

	view := ComputeGroupedView(scenarioTickets(), scenarioUsers(), domain.GroupByUser, domain.OrderByTitle)

	assert.Equal(t, []string{"Alice"}, view.Labels())
	alice, ok := view.Group("Alice")
	require.True(t, ok)
	assert.Equal(t, []string{"2", "1"}, ids(alice))
}

func TestComputeGroupedView_ScenarioStatusPriority(t *testing.T) {
	t.Parallel()

	view := ComputeGroupedView(scenarioTickets(), scenarioUsers(), domain.GroupByStatus, domain.OrderByPriority)

	assert.Equal(t, []string{"Backlog", "Todo", "In progress", "Done", "Cancelled"}, view.Labels())
	todo, _ := view.Group("Todo")
	assert.Equal(t, []string{"2", "1"}, ids(todo))
	for _, label := range []string{"Backlog", "In progress", "Done", "Cancelled"} {
		group, ok := view.Group(label)
		require.True(t, ok)
		assert.NotNil(t, group)
		assert.Empty(t, group)
	}
}

func TestComputeGroupedView_EveryTicketExactlyOnce(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 20; seed++ {
		tickets, users := randomTickets(seed, int(seed)*7)
		for _, mode := range allModes() {
			view := ComputeGroupedView(tickets, users, domain.GroupingMode(mode[0]), domain.OrderingMode(mode[1]))

			assert.Equal(t, len(tickets), view.TicketCount(), "seed %d mode %v", seed, mode)
			seen := make(map[string]int)
			for _, group := range view.Groups {
				for _, ticket := range group.Tickets {
					seen[ticket.ID]++
				}
			}
			for _, ticket := range tickets {
				assert.Equal(t, 1, seen[ticket.ID], "ticket %s seed %d mode %v", ticket.ID, seed, mode)
			}
		}
	}
}

func TestComputeGroupedView_StatusVocabularyAlwaysPresentInOrder(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 10; seed++ {
		tickets, users := randomTickets(seed, int(seed)*3)
		view := ComputeGroupedView(tickets, users, domain.GroupByStatus, domain.OrderByTitle)

		labels := view.Labels()
		require.GreaterOrEqual(t, len(labels), len(domain.StatusVocabulary))
		for i, status := range domain.StatusVocabulary {
			assert.Equal(t, string(status), labels[i])
		}
	}

	empty := ComputeGroupedView(nil, nil, domain.GroupByStatus, domain.OrderByTitle)
	assert.Len(t, empty.Groups, 5)
	assert.Zero(t, empty.TicketCount())
}

func TestComputeGroupedView_UnknownStatusGoesToOtherLast(t *testing.T) {
	t.Parallel()

	tickets := []domain.Ticket{
		{ID: "1", Title: "x", Status: "Blocked"},
		{ID: "2", Title: "y", Status: domain.TicketStatusDone},
		{ID: "3", Title: "z", Status: "todo"},
	}
	view := ComputeGroupedView(tickets, nil, domain.GroupByStatus, domain.OrderByTitle)

	assert.Equal(t, []string{"Backlog", "Todo", "In progress", "Done", "Cancelled", "Other"}, view.Labels())
	other, _ := view.Group(domain.StatusOther)
	assert.Equal(t, []string{"1", "3"}, ids(other))
}

func TestComputeGroupedView_UnknownUser(t *testing.T) {
	t.Parallel()

	tickets := []domain.Ticket{
		{ID: "1", Title: "a", UserID: "usr-9"},
		{ID: "2", Title: "b", UserID: "usr-1"},
		{ID: "3", Title: "c", UserID: ""},
	}
	users := []domain.User{{ID: "usr-1", Name: "Anoop"}}
	view := ComputeGroupedView(tickets, users, domain.GroupByUser, domain.OrderByTitle)

	assert.Equal(t, []string{"Unknown User", "Anoop"}, view.Labels(), "groups follow first appearance")
	unknown, _ := view.Group(domain.UnknownUser)
	assert.Equal(t, []string{"1", "3"}, ids(unknown))
}

func TestComputeGroupedView_UserGroupsHaveNoPlaceholders(t *testing.T) {
	t.Parallel()

	users := []domain.User{{ID: "usr-1", Name: "Anoop"}, {ID: "usr-2", Name: "Yogesh"}}
	tickets := []domain.Ticket{{ID: "1", Title: "a", UserID: "usr-2"}}
	view := ComputeGroupedView(tickets, users, domain.GroupByUser, domain.OrderByTitle)

	assert.Equal(t, []string{"Yogesh"}, view.Labels())
}

func TestComputeGroupedView_PriorityGroupsAscendingRawKeys(t *testing.T) {
	t.Parallel()

	tickets := []domain.Ticket{
		{ID: "1", Title: "a", Priority: 4},
		{ID: "2", Title: "b", Priority: 0},
		{ID: "3", Title: "c", Priority: 9},
		{ID: "4", Title: "d", Priority: 4},
	}
	view := ComputeGroupedView(tickets, nil, domain.GroupByPriority, domain.OrderByTitle)

	assert.Equal(t, []string{"0", "4", "9"}, view.Labels())
	assert.Equal(t, "No Priority", view.Header("0"))
	assert.Equal(t, "Urgent", view.Header("4"))
	assert.Equal(t, "", view.Header("9"))
}

func TestComputeGroupedView_TitleOrderingIsNonDecreasing(t *testing.T) {
	t.Parallel()

	collator := collate.New(language.English)
	for seed := int64(1); seed <= 10; seed++ {
		tickets, users := randomTickets(seed, 40)
		for _, grouping := range domain.GroupingModes {
			view := ComputeGroupedView(tickets, users, grouping, domain.OrderByTitle)
			for _, group := range view.Groups {
				for i := 1; i < len(group.Tickets); i++ {
					assert.LessOrEqual(t, collator.CompareString(group.Tickets[i-1].Title, group.Tickets[i].Title), 0)
				}
			}
		}
	}
}

func TestComputeGroupedView_TitleOrderingIsLocaleAware(t *testing.T) {
	t.Parallel()

	tickets := []domain.Ticket{
		{ID: "1", Title: "banana", UserID: "u"},
		{ID: "2", Title: "Apple", UserID: "u"},
		{ID: "3", Title: "éclair", UserID: "u"},
		{ID: "4", Title: "cherry", UserID: "u"},
	}
	view := ComputeGroupedView(tickets, []domain.User{{ID: "u", Name: "U"}}, domain.GroupByUser, domain.OrderByTitle)

	group, _ := view.Group("U")
	assert.Equal(t, []string{"2", "1", "4", "3"}, ids(group))
}

func TestComputeGroupedView_PriorityOrderingIsNonIncreasingAndStable(t *testing.T) {
	t.Parallel()

	tickets := []domain.Ticket{
		{ID: "1", Title: "z", Priority: 1},
		{ID: "2", Title: "y", Priority: 3},
		{ID: "3", Title: "x", Priority: 1},
		{ID: "4", Title: "w", Priority: 3},
	}
	view := ComputeGroupedView(tickets, nil, domain.GroupByUser, domain.OrderByPriority)

	group, _ := view.Group(domain.UnknownUser)
	assert.Equal(t, []string{"2", "4", "1", "3"}, ids(group))

	for seed := int64(1); seed <= 10; seed++ {
		random, users := randomTickets(seed, 40)
		for _, grouping := range domain.GroupingModes {
			v := ComputeGroupedView(random, users, grouping, domain.OrderByPriority)
			for _, g := range v.Groups {
				for i := 1; i < len(g.Tickets); i++ {
					assert.GreaterOrEqual(t, g.Tickets[i-1].Priority, g.Tickets[i].Priority)
				}
			}
		}
	}
}

func TestComputeGroupedView_Idempotent(t *testing.T) {
	t.Parallel()

	tickets, users := randomTickets(42, 50)
	for _, mode := range allModes() {
		first := ComputeGroupedView(tickets, users, domain.GroupingMode(mode[0]), domain.OrderingMode(mode[1]))
		second := ComputeGroupedView(tickets, users, domain.GroupingMode(mode[0]), domain.OrderingMode(mode[1]))
		assert.Equal(t, first, second)
	}
}

func TestComputeGroupedView_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	tickets := scenarioTickets()
	ComputeGroupedView(tickets, scenarioUsers(), domain.GroupByUser, domain.OrderByTitle)

	assert.Equal(t, []string{"1", "2"}, ids(tickets))
}

func TestComputeGroupedView_UnknownModesUseDefaults(t *testing.T) {
	t.Parallel()

	view := ComputeGroupedView(scenarioTickets(), scenarioUsers(), "assignee", "date")

	assert.Equal(t, domain.GroupByUser, view.Grouping)
	assert.Equal(t, domain.OrderByTitle, view.Ordering)
	assert.Equal(t, []string{"Alice"}, view.Labels())
}

func TestHeader(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "High", Header("3", domain.GroupByPriority))
	assert.Equal(t, "", Header("9", domain.GroupByPriority))
	assert.Equal(t, "", Header("not-a-number", domain.GroupByPriority))
	assert.Equal(t, "Todo", Header("Todo", domain.GroupByStatus))
	assert.Equal(t, "3", Header("3", domain.GroupByUser))
}
