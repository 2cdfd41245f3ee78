package protocal

import (
	"testing"
	"time"

	"sehatnama/configs"
	"sehatnama/internal/adapters/output/llmagent"
	"sehatnama/internal/adapters/output/offline"
	"sehatnama/internal/domain"
)

func TestBuildCatalog_Default(t *testing.T) {
	catalog, err := buildCatalog(configs.Interview{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if catalog.Len() != len(domain.DefaultSectionOrder) || catalog.First() != domain.SectionDemographics {
		t.Errorf("Expected the built-in catalog, got %d sections starting at %s", catalog.Len(), catalog.First())
	}
}

func TestBuildCatalog_Configured(t *testing.T) {
	catalog, err := buildCatalog(configs.Interview{
		Sections: []configs.SectionConfig{{ID: "a", Guidance: "ga"}, {ID: "b", Guidance: "gb"}},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	next, ok := catalog.Next("a")
	if catalog.Len() != 2 || !ok || next != "b" {
		t.Errorf("Expected a -> b, got len=%d next=%s ok=%v", catalog.Len(), next, ok)
	}
}

func TestBuildCatalog_BaseInstructionOnly(t *testing.T) {
	catalog, err := buildCatalog(configs.Interview{BaseInstruction: "section {{.Section}}"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	text, err := catalog.RenderInstruction(domain.SectionComplaint, domain.NewRecord())
	if err != nil || text != "section complaint" {
		t.Errorf("Expected the configured template, got %q (%v)", text, err)
	}
}

func TestBuildCatalog_Duplicate(t *testing.T) {
	_, err := buildCatalog(configs.Interview{
		Sections: []configs.SectionConfig{{ID: "a"}, {ID: "a"}},
	})
	if err == nil {
		t.Error("Expected an error for duplicate sections")
	}
}

func TestBuildAgent(t *testing.T) {
	for provider, want := range map[string]string{
		"offline":    "offline",
		"compatible": "llm",
		"openai":     "llm",
	} {
		agent, err := buildAgent(t.Context(), configs.Agent{Provider: provider, Model: "m", APIKey: "k"})
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", provider, err)
		}
		switch want {
		case "offline":
			if _, ok := agent.(*offline.Agent); !ok {
				t.Errorf("%s: expected the offline agent, got %T", provider, agent)
			}
		default:
			if _, ok := agent.(*llmagent.Agent); !ok {
				t.Errorf("%s: expected the tool-calling agent, got %T", provider, agent)
			}
		}
	}
}

func TestBuildTranslator_Disabled(t *testing.T) {
	translate, err := buildTranslator(t.Context(), configs.Translator{Provider: "none"})
	if err != nil || translate != nil {
		t.Errorf("Expected no translator, got %v (%v)", translate, err)
	}
}

func TestDurationDefaults(t *testing.T) {
	if got := minutesOr(0, time.Hour); got != time.Hour {
		t.Errorf("Expected fallback, got %v", got)
	}
	if got := minutesOr(5, time.Hour); got != 5*time.Minute {
		t.Errorf("Expected 5m, got %v", got)
	}
	if got := secondsOr(-1, time.Minute); got != time.Minute {
		t.Errorf("Expected fallback, got %v", got)
	}
}
