// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/appcontext"
	"codeberg.org/oliverandrich/clarity/internal/htmx"
	"codeberg.org/oliverandrich/clarity/internal/models"
	"codeberg.org/oliverandrich/clarity/internal/repository"
	"codeberg.org/oliverandrich/clarity/internal/services/flash"
	"codeberg.org/oliverandrich/clarity/internal/templates"
	"github.com/labstack/echo/v4"
)

const (
	recentPayments     = 20
	recentTransactions = 30
)

// Dashboard renders the section selected by the section query parameter.
func (h *Handlers) Dashboard(c echo.Context) error {
	user := appcontext.From(c).User
	if user == nil {
		return redirect(c, "/auth")
	}

	section := c.QueryParam("section")
	if !slices.Contains(templates.Sections, section) {
		section = templates.SectionOverview
	}

	data := templates.DashboardData{Page: h.page(c, "section_"+section), Section: section}
	ctx := c.Request().Context()

	var err error
	switch section {
	case templates.SectionWork:
		data.Work, err = h.workSection(ctx, user.ID)
	case templates.SectionClients:
		data.Clients, err = h.clientsSection(ctx, user.ID)
	case templates.SectionFinances:
		data.Finances, err = h.financesSection(ctx, user.ID)
	case templates.SectionEducation:
		data.Education, err = h.educationSection(ctx, user.ID)
	default:
		data.Overview, err = h.overview(ctx, user.ID)
	}
	if err != nil {
		return fmt.Errorf("load dashboard %s: %w", section, err)
	}

	return Render(c, http.StatusOK, templates.Dashboard(data))
}

// week returns today and the date seven days ahead as YYYY-MM-DD.
func (h *Handlers) week() (string, string) {
	today := h.now().UTC()
	return today.Format(time.DateOnly), today.AddDate(0, 0, 7).Format(time.DateOnly)
}

func (h *Handlers) monthStart() time.Time {
	now := h.now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (h *Handlers) overview(ctx context.Context, userID int64) (*templates.Overview, error) {
	var (
		o   templates.Overview
		err error
	)
	from, to := h.week()
	if o.Work, err = h.repo.WorkStats(ctx, userID, from, to); err != nil {
		return nil, err
	}
	if o.Clients, err = h.repo.ClientStats(ctx, userID); err != nil {
		return nil, err
	}
	if o.Finance, err = h.repo.FinanceStats(ctx, userID, h.monthStart()); err != nil {
		return nil, err
	}
	if o.Budget, err = h.repo.BudgetSummary(ctx, userID); err != nil {
		return nil, err
	}
	if o.Education, err = h.repo.EducationStats(ctx, userID); err != nil {
		return nil, err
	}
	return &o, nil
}

func (h *Handlers) workSection(ctx context.Context, userID int64) (*templates.WorkSection, error) {
	w := templates.WorkSection{Priorities: models.Priorities}
	var err error
	if w.Projects, err = h.repo.ListProjectsWithTasks(ctx, userID); err != nil {
		return nil, err
	}
	from, to := h.week()
	if w.Stats, err = h.repo.WorkStats(ctx, userID, from, to); err != nil {
		return nil, err
	}
	if w.Clients, err = h.repo.ListClients(ctx, userID); err != nil {
		return nil, err
	}
	return &w, nil
}

func (h *Handlers) clientsSection(ctx context.Context, userID int64) (*templates.ClientsSection, error) {
	var (
		s   templates.ClientsSection
		err error
	)
	if s.Clients, err = h.repo.ListClients(ctx, userID); err != nil {
		return nil, err
	}
	if s.Stats, err = h.repo.ClientStats(ctx, userID); err != nil {
		return nil, err
	}
	return &s, nil
}

func (h *Handlers) financesSection(ctx context.Context, userID int64) (*templates.FinancesSection, error) {
	var (
		f   templates.FinancesSection
		err error
	)
	if f.Budget, err = h.repo.BudgetSummary(ctx, userID); err != nil {
		return nil, err
	}
	if f.Stats, err = h.repo.FinanceStats(ctx, userID, h.monthStart()); err != nil {
		return nil, err
	}
	if f.Projects, err = h.repo.ProjectsWithPayments(ctx, userID); err != nil {
		return nil, err
	}
	if f.Payments, err = h.repo.RecentPayments(ctx, userID, recentPayments); err != nil {
		return nil, err
	}
	if f.Transactions, err = h.repo.ListTransactions(ctx, userID, recentTransactions); err != nil {
		return nil, err
	}
	if f.Revenue, err = h.repo.ClientRevenue(ctx, userID); err != nil {
		return nil, err
	}
	return &f, nil
}

func (h *Handlers) educationSection(ctx context.Context, userID int64) (*templates.EducationSection, error) {
	var (
		e   templates.EducationSection
		err error
	)
	if e.Skills, err = h.repo.ListSkills(ctx, userID); err != nil {
		return nil, err
	}
	if e.Courses, err = h.repo.ListCourses(ctx, userID); err != nil {
		return nil, err
	}
	if e.Stats, err = h.repo.EducationStats(ctx, userID); err != nil {
		return nil, err
	}
	return &e, nil
}

// userID returns the session principal. Dashboard routes sit behind RequireAuth.
func userID(c echo.Context) int64 {
	if user := appcontext.From(c).User; user != nil {
		return user.ID
	}
	return 0
}

// done refreshes the dashboard section after a mutation.
func (h *Handlers) done(c echo.Context, section string) error {
	htmx.Refresh(c.Response(), c.Request(), "/dashboard?section="+section)
	return nil
}

// invalid reports rejected input back to the section.
func (h *Handlers) invalid(c echo.Context, section, id string) error {
	h.flash(c, flash.Error, id)
	return h.done(c, section)
}

// result finishes a mutation: missing records become a flash message,
// other errors go to the error handler.
func (h *Handlers) result(c echo.Context, section string, err error) error {
	switch {
	case err == nil:
		return h.done(c, section)
	case errors.Is(err, repository.ErrNotFound):
		return h.invalid(c, section, "error_not_found")
	default:
		return fmt.Errorf("%s: %w", c.Path(), err)
	}
}
