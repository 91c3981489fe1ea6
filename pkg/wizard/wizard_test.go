package wizard

import (
	"testing"

	"essaypilot/pkg/profile"
)

func strPtr(s string) (p *string) {
	p = &s
	return p
}

// completeProfile builds a profile that passes every form-step gate and
// the topic gate.
func completeProfile() (p profile.Profile) {
	p = profile.New()
	p = profile.Reduce(p, profile.UpdateBasicInfo{FullName: strPtr("Ada"), Email: strPtr("ada@example.com")})
	p = profile.Reduce(p, profile.UpdateAcademics{ClassRank: strPtr("Top 10%"), Subjects: []string{"Math"}})
	p = profile.Reduce(p, profile.UpdateCollegeGoals{CollegeTypes: []string{"liberal arts"}})
	p = profile.Reduce(p, profile.SetSelectedTopic{Topic: &profile.SelectedTopic{
		Prompt:    profile.CommonAppPrompts["1"],
		IdeaTitle: "An idea",
	}})
	return p
}

func TestIsStepCompleteBasicInfo(t *testing.T) {
	p := profile.New()
	if IsStepComplete(StepBasicInfo, p) {
		t.Error("Expected empty basic info to be incomplete")
	}

	p = profile.Reduce(p, profile.UpdateBasicInfo{FullName: strPtr("Ada")})
	if IsStepComplete(StepBasicInfo, p) {
		t.Error("Expected name without email to be incomplete")
	}

	p = profile.Reduce(p, profile.UpdateBasicInfo{Email: strPtr("ada@example.com")})
	if !IsStepComplete(StepBasicInfo, p) {
		t.Error("Expected name and email to complete the step")
	}
}

func TestIsStepCompleteAcademicsIndependentFields(t *testing.T) {
	p := profile.New()

	p = profile.Reduce(p, profile.UpdateAcademics{ClassRank: strPtr("Unranked")})
	if IsStepComplete(StepAcademics, p) {
		t.Error("Expected rank alone to be insufficient")
	}

	// GPA never participates in the gate.
	p = profile.Reduce(p, profile.UpdateAcademics{GPA: strPtr("4.0")})
	if IsStepComplete(StepAcademics, p) {
		t.Error("Expected GPA to not affect the gate")
	}

	p = profile.Reduce(p, profile.UpdateAcademics{Subjects: []string{"Physics"}})
	if !IsStepComplete(StepAcademics, p) {
		t.Error("Expected rank plus subjects to complete the step")
	}
}

func TestIsStepCompleteOptionalSteps(t *testing.T) {
	p := profile.New()
	for _, step := range []StepID{StepActivities, StepPersonalInsights, StepEssayTypeChoice} {
		if !IsStepComplete(step, p) {
			t.Errorf("Expected optional step %s to never block", step)
		}
	}
}

func TestIsStepCompleteFollowup(t *testing.T) {
	p := completeProfile()
	p = profile.Reduce(p, profile.SetFollowUpQuestions{Questions: []profile.FollowUpQuestion{
		{ID: "q1", Text: "One"},
		{ID: "q2", Text: "Two"},
		{ID: "q3", Text: "Three"},
		{ID: "q4", Text: "Four"},
	}})

	p = profile.Reduce(p, profile.SetFollowUpResponse{ID: "q1", Answer: "a"})
	p = profile.Reduce(p, profile.SetFollowUpResponse{ID: "q2", Answer: "b"})
	if IsStepComplete(StepFollowup, p) {
		t.Error("Expected 2 answers to be insufficient")
	}

	p = profile.Reduce(p, profile.SetFollowUpResponse{ID: "q4", Answer: "c"})
	if !IsStepComplete(StepFollowup, p) {
		t.Error("Expected 3 answers to complete the step")
	}
}

func TestNavigatorNextGated(t *testing.T) {
	n := NewNavigator()
	empty := profile.New()

	step, moved := n.Next(empty)
	if moved {
		t.Error("Expected gate to block forward movement on empty profile")
	}
	if step != StepBasicInfo {
		t.Errorf("Expected to stay on basic-info, got %s", step)
	}

	p := completeProfile()
	step, moved = n.Next(p)
	if !moved || step != StepAcademics {
		t.Errorf("Expected to advance to academics, got %s (moved=%v)", step, moved)
	}
}

func TestNavigatorBackAlwaysAllowed(t *testing.T) {
	n := NewNavigator()
	p := completeProfile()

	n.Next(p)
	n.Next(p)

	step := n.Back()
	if step != StepAcademics {
		t.Errorf("Expected academics after back, got %s", step)
	}

	// Back at the first step stays put.
	n.Back()
	step = n.Back()
	if step != StepBasicInfo {
		t.Errorf("Expected to stay at basic-info, got %s", step)
	}
}

func TestNavigatorSetIndexClamps(t *testing.T) {
	n := NewNavigator()

	n.SetIndex(-3)
	if n.Index() != 0 {
		t.Errorf("Expected negative index clamped to 0, got %d", n.Index())
	}

	n.SetIndex(999)
	if n.Current() != StepResult {
		t.Errorf("Expected oversized index clamped to last step, got %s", n.Current())
	}
}

func TestResolveRedirectsOnIncompletePredecessor(t *testing.T) {
	n := NewNavigator()
	empty := profile.New()

	resolved := n.Resolve(StepTopics, empty)
	if resolved != StepBasicInfo {
		t.Errorf("Expected redirect to basic-info, got %s", resolved)
	}
}

func TestResolveAllowsReachableTarget(t *testing.T) {
	n := NewNavigator()
	p := completeProfile()

	resolved := n.Resolve(StepTopics, p)
	if resolved != StepTopics {
		t.Errorf("Expected topics to be reachable, got %s", resolved)
	}

	// Topics gate passes (topic selected), so followup is reachable too.
	resolved = n.Resolve(StepFollowup, p)
	if resolved != StepFollowup {
		t.Errorf("Expected followup to be reachable, got %s", resolved)
	}
}

func TestGotoLandsOnResolvedStep(t *testing.T) {
	n := NewNavigator()
	empty := profile.New()

	landed := n.Goto(StepResult, empty)
	if landed != StepBasicInfo {
		t.Errorf("Expected goto to land on basic-info, got %s", landed)
	}
	if n.Current() != StepBasicInfo {
		t.Errorf("Expected navigator positioned at basic-info, got %s", n.Current())
	}
}
