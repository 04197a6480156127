package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"venuedesk/internal/adapters/http/middleware"
	"venuedesk/internal/application/listutil"
	"venuedesk/internal/application/orchestrators"
	"venuedesk/internal/application/projections"
	"venuedesk/internal/domain/member"
)

var memberInputErrors = []error{
	member.ErrEmptyName, member.ErrNameTooLong, member.ErrContactTooLong, member.ErrInvalidRole,
}

func isMemberInputError(err error) bool {
	for _, e := range memberInputErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// handleMembership handles GET (list) and POST (add) for /membership
func handleMembership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := currentSession(r)

	if r.Method == "GET" {
		lp := listutil.ParseListParams(r.URL.Query(), nil, []string{"role"})
		data := map[string]any{
			"Roles": member.Roles,
			"Flash": sess.TakeFlash(),
		}
		middleware.SaveSession(ctx, sess)
		renderMembers(w, r, http.StatusOK, lp, data)
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input := orchestrators.AddMemberInput{
			Name:    r.FormValue("name"),
			Role:    r.FormValue("role"),
			Contact: r.FormValue("contact"),
			AddedBy: sess.Email(),
		}
		m, err := orchestrators.ExecuteAddMember(ctx, input, orchestrators.AddMemberDeps{
			Store: stores.Members,
			Audit: auditDeps(),
		})
		if err != nil {
			data := map[string]any{
				"Roles": member.Roles,
				"Form":  input,
			}
			status := http.StatusUnprocessableEntity
			if isMemberInputError(err) {
				data["Error"] = err.Error()
			} else {
				slog.Error("member_add_failed", "email", sess.Email(), "error", err)
				data["Error"] = "Could not save the member. Please try again."
				status = http.StatusBadGateway
			}
			renderMembers(w, r, status, listutil.ListParams{}, data)
			return
		}

		sess.Flash = fmt.Sprintf("Added %s as %s", m.Name, m.Role)
		middleware.SaveSession(ctx, sess)
		http.Redirect(w, r, "/membership", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// renderMembers loads the directory and renders it with data.
func renderMembers(w http.ResponseWriter, r *http.Request, status int, lp listutil.ListParams, data map[string]any) {
	res, err := projections.QueryMemberList(r.Context(), projections.MemberListQuery{
		Filter: lp.FilterParams,
		Page:   lp.PageParams,
	}, projections.MemberListDeps{Store: stores.Members})
	if err != nil {
		internalError(w, err)
		return
	}
	data["Result"] = res
	data["Search"] = lp.Search
	data["Role"] = lp.Filter("role")
	data["Query"] = r.URL.Query()
	renderTemplateStatus(w, r, status, "membership.html", data)
}
