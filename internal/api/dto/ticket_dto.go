package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spec-kit/ticket-board/internal/board"
	"github.com/spec-kit/ticket-board/internal/domain"
)

// BoardPayload is the remote endpoint response.
type BoardPayload struct {
	Tickets []TicketPayload `json:"tickets"`
	Users   []UserPayload   `json:"users"`
}

// TicketPayload is one ticket as sent by the remote endpoint.
type TicketPayload struct {
	ID       FlexibleID       `json:"id"`
	Title    string           `json:"title"`
	Tag      []string         `json:"tag,omitempty"`
	UserID   FlexibleID       `json:"userId"`
	Status   string           `json:"status"`
	Priority FlexiblePriority `json:"priority"`
}

// FlexibleID accepts a JSON string or number and keeps its textual form.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

// FlexiblePriority accepts a JSON integer or a numeric string. null reads as
// no priority.
type FlexiblePriority domain.Priority

func (p *FlexiblePriority) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = FlexiblePriority(domain.PriorityNone)
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := domain.ParsePriority(s)
		if err != nil {
			return err
		}
		*p = FlexiblePriority(parsed)
		return nil
	}
	value, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid priority %s: %w", data, err)
	}
	*p = FlexiblePriority(value)
	return nil
}

// ToDomain converts the payload into domain values.
func (p BoardPayload) ToDomain() ([]domain.Ticket, []domain.User) {
	tickets := make([]domain.Ticket, 0, len(p.Tickets))
	for _, t := range p.Tickets {
		tickets = append(tickets, domain.Ticket{
			ID:       string(t.ID),
			Title:    t.Title,
			Status:   domain.TicketStatus(t.Status),
			Priority: domain.Priority(t.Priority),
			UserID:   string(t.UserID),
		})
	}
	users := make([]domain.User, 0, len(p.Users))
	for _, u := range p.Users {
		users = append(users, domain.User{ID: string(u.ID), Name: u.Name})
	}
	return tickets, users
}

// TicketResponse is a ticket card.
type TicketResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	Priority      int    `json:"priority"`
	PriorityLabel string `json:"priority_label"`
	UserID        string `json:"user_id"`
}

// GroupResponse is one board column.
type GroupResponse struct {
	Label   string           `json:"label"`
	Header  string           `json:"header"`
	Count   int              `json:"count"`
	Tickets []TicketResponse `json:"tickets"`
}

// BoardResponse is the grouped view.
type BoardResponse struct {
	Grouping string          `json:"grouping"`
	Ordering string          `json:"ordering"`
	Total    int             `json:"total"`
	Groups   []GroupResponse `json:"groups"`
}

// NewTicketResponse renders a ticket card.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            t.ID,
		Title:         t.Title,
		Status:        string(t.Status),
		Priority:      int(t.Priority),
		PriorityLabel: t.Priority.Label(),
		UserID:        t.UserID,
	}
}

// NewBoardResponse renders a grouped view with column headers.
func NewBoardResponse(view board.GroupedView) BoardResponse {
	groups := make([]GroupResponse, 0, len(view.Groups))
	for _, group := range view.Groups {
		tickets := make([]TicketResponse, 0, len(group.Tickets))
		for _, t := range group.Tickets {
			tickets = append(tickets, NewTicketResponse(t))
		}
		groups = append(groups, GroupResponse{
			Label:   group.Label,
			Header:  view.Header(group.Label),
			Count:   len(tickets),
			Tickets: tickets,
		})
	}
	return BoardResponse{
		Grouping: string(view.Grouping),
		Ordering: string(view.Ordering),
		Total:    view.TicketCount(),
		Groups:   groups,
	}
}
