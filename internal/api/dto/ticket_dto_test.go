package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestUpdateTicketRequestAssignedToTriState(t *testing.T) {
	var req UpdateTicketRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"resolved"}`), &req))
	assert.False(t, req.AssignedTo.Set)
	require.NotNil(t, req.Status)
	assert.Equal(t, domain.TicketStatusResolved, *req.Status)

	req = UpdateTicketRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"assignedTo":null}`), &req))
	assert.True(t, req.AssignedTo.Set)
	assert.Nil(t, req.AssignedTo.Value)
	assert.Nil(t, req.Status)

	req = UpdateTicketRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"assignedTo":"u-42"}`), &req))
	assert.True(t, req.AssignedTo.Set)
	require.NotNil(t, req.AssignedTo.Value)
	assert.Equal(t, "u-42", *req.AssignedTo.Value)

	req = UpdateTicketRequest{}
	assert.Error(t, json.Unmarshal([]byte(`{"assignedTo":7}`), &req))
}

func TestTicketResponseShape(t *testing.T) {
	created := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{
		ID:          "t1",
		Subject:     "Printer broken",
		Description: "Office printer does not respond",
		Priority:    domain.TicketPriorityHigh,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   domain.UserRef{ID: "u1", Name: "User One", Email: "u1@ticketsystem.com"},
		Comments: []domain.Comment{
			{UserID: "u1", UserName: "User One", UserRole: domain.RoleUser, Text: "any news?", CreatedAt: created},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}

	resp := NewTicketResponse(ticket)
	assert.Nil(t, resp.AssignedTo)
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, "u1", resp.Comments[0].User)
	assert.Equal(t, domain.RoleUser, resp.Comments[0].UserRole)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// assignedTo is always present, null when unassigned
	v, ok := decoded["assignedTo"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, "open", decoded["status"])
	assert.Equal(t, "high", decoded["priority"])

	ticket.AssignedTo = &domain.UserRef{ID: "ag1", Name: "Agent", Email: "agent@ticketsystem.com"}
	resp = NewTicketResponse(ticket)
	require.NotNil(t, resp.AssignedTo)
	assert.Equal(t, "ag1", resp.AssignedTo.ID)
}
