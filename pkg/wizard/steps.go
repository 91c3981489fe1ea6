// Package wizard sequences the guided flow: an ordered step list, a
// pure completeness gate per step, and a navigator that enforces the
// gate on forward movement while leaving backward movement free.
package wizard

import (
	"essaypilot/pkg/profile"
)

// StepID identifies one wizard step.
type StepID string

// Wizard steps in flow order.
const (
	StepBasicInfo        StepID = "basic-info"
	StepAcademics        StepID = "academics"
	StepCollegeGoals     StepID = "college-goals"
	StepActivities       StepID = "activities"
	StepPersonalInsights StepID = "personal-insights"
	StepEssayTypeChoice  StepID = "essay-type-choice"
	StepTopics           StepID = "topics"
	StepFollowup         StepID = "followup"
	StepResult           StepID = "result"
)

// MinAnsweredFollowUps is the number of answered follow-up questions
// required before essay generation.
const MinAnsweredFollowUps = 3

// FormSteps are the linear data-entry steps whose position is persisted
// so a reloaded session resumes where it left off.
//
//nolint:gochecknoglobals // Static flow definition
var FormSteps = []StepID{
	StepBasicInfo,
	StepAcademics,
	StepCollegeGoals,
	StepActivities,
	StepPersonalInsights,
}

// Flow is the full step sequence for the Common App essay path.
//
//nolint:gochecknoglobals // Static flow definition
var Flow = []StepID{
	StepBasicInfo,
	StepAcademics,
	StepCollegeGoals,
	StepActivities,
	StepPersonalInsights,
	StepEssayTypeChoice,
	StepTopics,
	StepFollowup,
	StepResult,
}

// IsStepComplete reports whether the given step's required fields are
// satisfied. Pure; no side effects, no I/O.
func IsStepComplete(step StepID, p profile.Profile) (complete bool) {
	switch step {
	case StepBasicInfo:
		complete = p.BasicInfo.FullName != "" && p.BasicInfo.Email != ""
	case StepAcademics:
		complete = p.Academics.ClassRank != "" && len(p.Academics.Subjects) > 0
	case StepCollegeGoals:
		complete = len(p.CollegeGoals.CollegeTypes) > 0
	case StepActivities, StepPersonalInsights, StepEssayTypeChoice:
		// Optional sections never block.
		complete = true
	case StepTopics:
		complete = p.SelectedTopic != nil
	case StepFollowup:
		complete = profile.AnsweredFollowUpCount(p) >= MinAnsweredFollowUps
	case StepResult:
		complete = p.GeneratedEssay != ""
	default:
		complete = true
	}
	return complete
}
