package api

import (
	"fmt"
	"net/http"

	"github.com/pagedeck/pagedeck/api/helpers"
	"github.com/pagedeck/pagedeck/db"
	"github.com/pagedeck/pagedeck/services/invites"
)

type InvitesController struct {
	invites *invites.Service
}

func NewInvitesController(inviteService *invites.Service) *InvitesController {
	return &InvitesController{invites: inviteService}
}

// SendInvites creates pending invites from the authenticated user to
// every listed receiver and reports how many were actually created.
func (c *InvitesController) SendInvites(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	var request struct {
		ReceiverIDs []int `json:"receiverIds"`
		PageID      *int  `json:"pageId"`
	}

	if !helpers.Bind(w, r, &request) {
		return
	}

	if len(request.ReceiverIDs) == 0 {
		helpers.WriteErrorStatus(w, "Receiver IDs are required and must be an array", http.StatusBadRequest)
		return
	}

	created, err := c.invites.Send(user.ID, request.ReceiverIDs, request.PageID)
	if err != nil {
		if _, ok := err.(*db.ValidationError); ok {
			helpers.WriteErrorStatus(w, "Some users not found", http.StatusBadRequest)
			return
		}
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": fmt.Sprintf("%d invites sent successfully", len(created)),
		"invites": created,
	})
}

// GetReceivedInvites lists invites addressed to the authenticated
// user, filtered by status (default pending).
func (c *InvitesController) GetReceivedInvites(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	status := statusFilter(r, db.InvitePending)

	list, err := c.invites.Received(user.ID, status)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"invites": list,
	})
}

// GetSentInvites lists invites created by the authenticated user,
// filtered by status (default all).
func (c *InvitesController) GetSentInvites(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	status := statusFilter(r, db.InviteStatusAny)

	list, err := c.invites.Sent(user.ID, status)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"invites": list,
	})
}

// RespondToInvite accepts or declines a pending invite addressed to
// the authenticated user.
func (c *InvitesController) RespondToInvite(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	inviteID, err := helpers.GetIntParam("invite_id", w, r)
	if err != nil {
		return
	}

	var request struct {
		Action invites.Action `json:"action"`
	}

	if !helpers.Bind(w, r, &request) {
		return
	}

	if !request.Action.IsValid() {
		helpers.WriteErrorStatus(w, "Action must be either accept or decline", http.StatusBadRequest)
		return
	}

	invite, err := c.invites.Respond(inviteID, user.ID, request.Action)
	if err != nil {
		if err == invites.ErrNotProcessable {
			helpers.WriteErrorStatus(w, "Invite not found or already processed", http.StatusNotFound)
			return
		}
		helpers.WriteError(w, err)
		return
	}

	verb := "accepted"
	if request.Action == invites.ActionDecline {
		verb = "declined"
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Invite %s successfully", verb),
		"data":    map[string]any{"invite": invite},
	})
}

// CancelInvite cancels a pending invite created by the authenticated
// user.
func (c *InvitesController) CancelInvite(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	inviteID, err := helpers.GetIntParam("invite_id", w, r)
	if err != nil {
		return
	}

	invite, err := c.invites.Cancel(inviteID, user.ID)
	if err != nil {
		if err == invites.ErrNotProcessable {
			helpers.WriteErrorStatus(w, "Invite not found or cannot be cancelled", http.StatusNotFound)
			return
		}
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Invite cancelled successfully",
		"data":    map[string]any{"invite": invite},
	})
}

func statusFilter(r *http.Request, fallback db.InviteStatus) db.InviteStatus {
	if v := r.URL.Query().Get("status"); v != "" {
		return db.InviteStatus(v)
	}
	return fallback
}
