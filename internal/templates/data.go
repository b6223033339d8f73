// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"codeberg.org/oliverandrich/clarity/internal/models"
	"codeberg.org/oliverandrich/clarity/internal/services/flash"
)

// Page carries what the layout needs on every page.
type Page struct {
	Title string
	User  *models.User
	Flash *flash.Message
}

type HomeData struct {
	Page
	Contact ContactForm
}

// ContactForm echoes submitted values back after a failed submission.
type ContactForm struct {
	Name    string
	Surname string
	Email   string
	Subject string
	Message string
}

// Auth page modes.
const (
	ModeLogin    = "login"
	ModeRegister = "register"
	ModeForgot   = "forgot"
)

type AuthData struct {
	Page
	Mode  string
	Name  string
	Email string
	Role  string
}

type ResetData struct {
	Page
	Email string
	Token string
}

type ErrorData struct {
	Page
	Code    int
	Message string
}

// Dashboard sections.
const (
	SectionOverview  = "overview"
	SectionWork      = "work"
	SectionClients   = "clients"
	SectionFinances  = "finances"
	SectionEducation = "education"
)

// Sections lists the dashboard sections in navigation order.
var Sections = []string{SectionOverview, SectionWork, SectionClients, SectionFinances, SectionEducation}

type DashboardData struct {
	Page
	Section   string
	Overview  *Overview
	Work      *WorkSection
	Clients   *ClientsSection
	Finances  *FinancesSection
	Education *EducationSection
}

// Sections exposes the navigation entries to the view.
func (DashboardData) Sections() []string { return Sections }

type Overview struct {
	Work      models.WorkStats
	Clients   models.ClientStats
	Finance   models.FinanceStats
	Budget    models.BudgetSummary
	Education models.EducationStats
}

type WorkSection struct {
	Projects   []models.Project
	Stats      models.WorkStats
	Clients    []models.Client
	Priorities []string
}

type ClientsSection struct {
	Clients []models.Client
	Stats   models.ClientStats
}

type FinancesSection struct {
	Budget       models.BudgetSummary
	Stats        models.FinanceStats
	Projects     []models.ProjectPayments
	Payments     []models.Payment
	Transactions []models.Transaction
	Revenue      []models.ClientRevenue
}

type EducationSection struct {
	Skills  []models.Skill
	Courses []models.Course
	Stats   models.EducationStats
}
