package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shahinarahman616-del/HealthMate/api/middleware"
	"github.com/shahinarahman616-del/HealthMate/api/responses"
	"github.com/shahinarahman616-del/HealthMate/api/validators"
	"github.com/shahinarahman616-del/HealthMate/internal/audit"
	"github.com/shahinarahman616-del/HealthMate/internal/emergency"
	"github.com/shahinarahman616-del/HealthMate/internal/family"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
	"github.com/shahinarahman616-del/HealthMate/pkg/logger"
	"github.com/shahinarahman616-del/HealthMate/pkg/pagination"
)

func familyActor(r *http.Request) (family.Actor, error) {
	userID, err := callerID(r)
	if err != nil {
		return family.Actor{}, err
	}
	return family.Actor{
		ID:    userID,
		Email: middleware.UserEmailFromContext(r.Context()),
		Name:  middleware.UserNameFromContext(r.Context()),
	}, nil
}

// FamilyInvite creates a pending relationship invitation.
func FamilyInvite(svc family.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "family service unavailable"))
			return
		}

		actor, err := familyActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body family.InviteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Invite(r.Context(), actor, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "invitation sent", result)
	}
}

// FamilyMembers lists relationships the caller owns.
func FamilyMembers(svc family.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "family service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListOwned(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"members": result})
	}
}

// FamilyAccessibleProfiles lists profiles shared with the caller.
func FamilyAccessibleProfiles(svc family.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "family service unavailable"))
			return
		}

		actor, err := familyActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListAccessible(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"profiles": result})
	}
}

// FamilyPendingInvitations lists invitations waiting on the caller.
func FamilyPendingInvitations(svc family.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "family service unavailable"))
			return
		}

		actor, err := familyActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListPendingInvitations(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"invitations": result})
	}
}

// FamilyRespond accepts or declines a pending invitation.
func FamilyRespond(svc family.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "family service unavailable"))
			return
		}

		actor, err := familyActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		relationshipID, err := uuid.Parse(chi.URLParam(r, "relationshipId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid relationship id"))
			return
		}

		var body family.RespondRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Respond(r.Context(), actor, relationshipID, body.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "invitation "+string(result.Status), result)
	}
}

// FamilyUpdateAccessLevel changes the tier an owner granted a member.
func FamilyUpdateAccessLevel(svc family.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "family service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		relationshipID, err := uuid.Parse(chi.URLParam(r, "relationshipId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid relationship id"))
			return
		}

		var body family.UpdateAccessLevelRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateAccessLevel(r.Context(), userID, relationshipID, body.AccessLevel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "access level updated", result)
	}
}

// FamilyRevoke removes a member's access.
func FamilyRevoke(svc family.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "family service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		relationshipID, err := uuid.Parse(chi.URLParam(r, "relationshipId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid relationship id"))
			return
		}

		if err := svc.Revoke(r.Context(), userID, relationshipID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "access revoked", nil)
	}
}

// FamilyAccessLogs returns the caller's sharing activity feed.
func FamilyAccessLogs(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", audit.DefaultListLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		caller := audit.Caller{ID: userID, Email: middleware.UserEmailFromContext(r.Context())}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		result, err := svc.List(r.Context(), caller, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// EmergencyRequest files an emergency access request against another user.
func EmergencyRequest(svc emergency.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "emergency service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body emergency.RequestDTO
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requester := emergency.Requester{
			ID:    userID,
			Email: middleware.UserEmailFromContext(r.Context()),
			Name:  middleware.UserNameFromContext(r.Context()),
		}

		result, err := svc.Request(r.Context(), requester, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "emergency access requested", result)
	}
}

// EmergencyList returns the caller's emergency requests. direction=received
// switches to requests filed against the caller.
func EmergencyList(svc emergency.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "emergency service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var result []emergency.AccessRequestDTO
		if strings.EqualFold(r.URL.Query().Get("direction"), "received") {
			result, err = svc.ListAgainstMe(r.Context(), userID)
		} else {
			result, err = svc.ListMine(r.Context(), userID)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"requests": result})
	}
}
