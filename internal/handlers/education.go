// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"strconv"
	"strings"

	"codeberg.org/oliverandrich/clarity/internal/models"
	"codeberg.org/oliverandrich/clarity/internal/templates"
	"github.com/labstack/echo/v4"
)

// level parses a skill level and clamps it to 0..100. An empty value is 0.
func level(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return models.ClampLevel(n), true
}

func (h *Handlers) CreateSkill(c echo.Context) error {
	const section = templates.SectionEducation

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return h.invalid(c, section, "error_missing_fields")
	}
	lvl, ok := level(c.FormValue("level"))
	if !ok {
		return h.invalid(c, section, "error_invalid_level")
	}

	skill := &models.Skill{UserID: userID(c), Name: name, Level: lvl}
	return h.result(c, section, h.repo.CreateSkill(c.Request().Context(), skill))
}

func (h *Handlers) SetSkillLevel(c echo.Context) error {
	const section = templates.SectionEducation

	id, ok := pathID(c)
	if !ok {
		return h.invalid(c, section, "error_not_found")
	}
	lvl, ok := level(c.FormValue("level"))
	if !ok {
		return h.invalid(c, section, "error_invalid_level")
	}
	return h.result(c, section, h.repo.SetSkillLevel(c.Request().Context(), userID(c), id, lvl))
}

// DeleteSkill removes a skill and its courses.
func (h *Handlers) DeleteSkill(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return h.invalid(c, templates.SectionEducation, "error_not_found")
	}
	return h.result(c, templates.SectionEducation, h.repo.DeleteSkill(c.Request().Context(), userID(c), id))
}

func (h *Handlers) CreateCourse(c echo.Context) error {
	const section = templates.SectionEducation

	skillID, ok := formID(c, "skill_id")
	if !ok {
		return h.invalid(c, section, "error_missing_fields")
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" || len(title) > maxTitleLength {
		return h.invalid(c, section, "error_missing_fields")
	}

	url := strings.TrimSpace(c.FormValue("url"))
	if url != "" && !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return h.invalid(c, section, "error_invalid_url")
	}

	course := &models.Course{
		UserID:   userID(c),
		SkillID:  skillID,
		Title:    title,
		Platform: strings.TrimSpace(c.FormValue("platform")),
		URL:      url,
	}
	return h.result(c, section, h.repo.CreateCourse(c.Request().Context(), course))
}

// ToggleCourse advances a course to its next status.
func (h *Handlers) ToggleCourse(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return h.invalid(c, templates.SectionEducation, "error_not_found")
	}
	_, err := h.repo.ToggleCourseStatus(c.Request().Context(), userID(c), id)
	return h.result(c, templates.SectionEducation, err)
}

func (h *Handlers) DeleteCourse(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return h.invalid(c, templates.SectionEducation, "error_not_found")
	}
	return h.result(c, templates.SectionEducation, h.repo.DeleteCourse(c.Request().Context(), userID(c), id))
}
