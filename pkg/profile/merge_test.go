package profile

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestApplyDocumentSectionReplace(t *testing.T) {
	base := New()
	base = Reduce(base, UpdateBasicInfo{FullName: strPtr("Old Name"), Email: strPtr("old@example.com")})
	base = Reduce(base, UpdateAcademics{ClassRank: strPtr("Top 5%"), Subjects: []string{"Art"}})

	doc := []byte(`{
		"basicInfo": {"fullName": "New Name", "email": "new@example.com"},
		"generatedEssay": "Stored essay."
	}`)

	hydrated, err := ApplyDocument(base, doc)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if hydrated.BasicInfo.FullName != "New Name" {
		t.Errorf("Expected replaced basic info, got '%s'", hydrated.BasicInfo.FullName)
	}
	if hydrated.Academics.ClassRank != "Top 5%" {
		t.Errorf("Expected missing section to keep base values, got '%s'", hydrated.Academics.ClassRank)
	}
	if hydrated.GeneratedEssay != "Stored essay." {
		t.Errorf("Expected essay hydrated, got '%s'", hydrated.GeneratedEssay)
	}
}

func TestApplyDocumentNullSectionKept(t *testing.T) {
	base := New()
	base = Reduce(base, SetSelectedTopic{Topic: &SelectedTopic{Prompt: "P", IdeaTitle: "T"}})

	hydrated, err := ApplyDocument(base, []byte(`{"selectedTopic": null, "basicInfo": null}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if hydrated.SelectedTopic == nil {
		t.Error("Expected null section to keep base value")
	}
}

func TestApplyDocumentBadJSON(t *testing.T) {
	_, err := ApplyDocument(New(), []byte(`{not json`))
	if err == nil {
		t.Error("Expected error for malformed document")
	}
}

func TestApplyDocumentInitializesResponses(t *testing.T) {
	hydrated, err := ApplyDocument(Profile{}, []byte(`{}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if hydrated.FollowUpResponses == nil {
		t.Error("Expected responses map initialized")
	}
}

func TestApplyDocumentRoundTrip(t *testing.T) {
	p := New()
	p = Reduce(p, UpdateBasicInfo{FullName: strPtr("Ada"), Email: strPtr("ada@example.com")})
	p = Reduce(p, SetFollowUpQuestions{Questions: []FollowUpQuestion{{ID: "q1", Text: "Why?"}}})
	p = Reduce(p, SetFollowUpResponse{ID: "q1", Answer: "Because"})

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Unexpected marshal error: %v", err)
	}

	hydrated, err := ApplyDocument(New(), data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if hydrated.BasicInfo.FullName != "Ada" {
		t.Errorf("Expected 'Ada', got '%s'", hydrated.BasicInfo.FullName)
	}
	if hydrated.FollowUpResponses["q1"] != "Because" {
		t.Errorf("Expected answer preserved, got '%s'", hydrated.FollowUpResponses["q1"])
	}
}

func TestLoadFileValidatesEnums(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")

	p := New()
	p.Academics.ClassRank = "Top 0.001%"
	err := SaveFile(p, path)
	if err != nil {
		t.Fatalf("Unexpected save error: %v", err)
	}

	_, err = LoadFile(path)
	if err == nil {
		t.Error("Expected validation error for unknown class rank")
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")

	p := New()
	p = Reduce(p, UpdateAcademics{ClassRank: strPtr("Top 10%"), Subjects: []string{"Math"}})
	p = Reduce(p, AppendActivity{Activity: Activity{Category: "sports", HoursPerWeek: "5", Years: []string{"9th", "10th"}}})

	err := SaveFile(p, path)
	if err != nil {
		t.Fatalf("Unexpected save error: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected load error: %v", err)
	}

	if loaded.Academics.ClassRank != "Top 10%" {
		t.Errorf("Expected class rank round-tripped, got '%s'", loaded.Academics.ClassRank)
	}
	if len(loaded.Activities.Activities) != 1 {
		t.Fatalf("Expected 1 activity, got %d", len(loaded.Activities.Activities))
	}
}
