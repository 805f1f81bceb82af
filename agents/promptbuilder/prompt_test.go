/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/s1879281/systemic-investing-evaluation/agents/promptbuilder"
)

func TestNewPrompt(t *testing.T) {
	check := func(t *testing.T, p *promptbuilder.Prompt, err error, want map[string]struct{}) {
		t.Helper()
		if err != nil {
			t.Fatalf("NewPrompt() error = %v", err)
		}
		if diff := cmp.Diff(want, p.GetBindings()); diff != "" {
			t.Errorf("GetBindings() mismatch (-want +got):\n%s", diff)
		}
	}

	t.Run("no bindings", func(t *testing.T) {
		p, err := promptbuilder.NewPrompt("This is a simple prompt with no bindings")
		check(t, p, err, map[string]struct{}{})
	})

	t.Run("single binding", func(t *testing.T) {
		p, err := promptbuilder.NewPrompt("Analyze this: {{data}}")
		check(t, p, err, map[string]struct{}{"data": {}})
	})

	t.Run("repeated binding with spaces", func(t *testing.T) {
		p, err := promptbuilder.NewPrompt("First {{data}}, then {{ data }} again")
		check(t, p, err, map[string]struct{}{"data": {}})
	})

	t.Run("rubric and document", func(t *testing.T) {
		p, err := promptbuilder.NewPrompt("Framework:\n{{rubric}}\n\nCase Document:\n{{document}}")
		check(t, p, err, map[string]struct{}{"rubric": {}, "document": {}})
	})
}

func TestNewPromptInvalid(t *testing.T) {
	if _, err := promptbuilder.NewPrompt("unclosed {{data"); err == nil {
		t.Error("unclosed binding: error = nil, wanted error")
	}
	if _, err := promptbuilder.NewPrompt("bad {{1abc}}"); err == nil {
		t.Error("leading digit: error = nil, wanted error")
	}
	if _, err := promptbuilder.NewPrompt("empty {{}}"); err == nil {
		t.Error("empty name: error = nil, wanted error")
	}
	if _, err := promptbuilder.NewPrompt("dash {{a-b}}"); err == nil {
		t.Error("dash in name: error = nil, wanted error")
	}
}

func TestBuildUnbound(t *testing.T) {
	p := promptbuilder.MustNewPrompt("Hello {{name}}")
	if _, err := p.Build(); err == nil || !strings.Contains(err.Error(), "unbound placeholder: name") {
		t.Errorf("Build() error = %v, wanted unbound placeholder error", err)
	}
}

func TestBindText(t *testing.T) {
	base := promptbuilder.MustNewPrompt("Case Document:\n{{document}}\nEnd")

	p, err := base.BindText("document", "line one\nline two {{rubric}}")
	if err != nil {
		t.Fatalf("BindText() error = %v", err)
	}
	got, err := p.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// Placeholders inside bound values are not expanded.
	want := "Case Document:\nline one\nline two {{rubric}}\nEnd"
	if got != want {
		t.Errorf("Build() = %q, wanted %q", got, want)
	}

	// The original prompt stays unbound.
	if _, err := base.Build(); err == nil {
		t.Error("base.Build() error = nil, wanted unbound error")
	}
}

func TestBindTwice(t *testing.T) {
	p, err := promptbuilder.MustNewPrompt("{{a}}").BindText("a", "x")
	if err != nil {
		t.Fatalf("BindText() error = %v", err)
	}
	if _, err := p.BindText("a", "y"); err == nil {
		t.Error("second BindText() error = nil, wanted already bound")
	}
	if _, err := p.BindText("missing", "y"); err == nil {
		t.Error("BindText(missing) error = nil, wanted not found")
	}
}

func TestBindJSON(t *testing.T) {
	t.Run("raw message keeps key order", func(t *testing.T) {
		raw := json.RawMessage(`{"zeta":1,"alpha":{"b":2,"a":1}}`)
		p, err := promptbuilder.MustNewPrompt("{{rubric}}").BindJSON("rubric", raw)
		if err != nil {
			t.Fatalf("BindJSON() error = %v", err)
		}
		got, err := p.Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		want := "{\n  \"zeta\": 1,\n  \"alpha\": {\n    \"b\": 2,\n    \"a\": 1\n  }\n}"
		if got != want {
			t.Errorf("Build() = %q, wanted %q", got, want)
		}
	})

	t.Run("markup is not escaped", func(t *testing.T) {
		raw := json.RawMessage(`{"hallmarks":["Systems & Complexity","<Power>"]}`)
		p, err := promptbuilder.MustNewPrompt("{{rubric}}").BindJSON("rubric", raw)
		if err != nil {
			t.Fatalf("BindJSON() error = %v", err)
		}
		got, err := p.Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		want := "{\n  \"hallmarks\": [\n    \"Systems & Complexity\",\n    \"<Power>\"\n  ]\n}"
		if got != want {
			t.Errorf("Build() = %q, wanted %q", got, want)
		}
	})

	t.Run("marshal failure surfaces at build", func(t *testing.T) {
		p, err := promptbuilder.MustNewPrompt("{{x}}").BindJSON("x", make(chan int))
		if err != nil {
			t.Fatalf("BindJSON() error = %v", err)
		}
		if _, err := p.Build(); err == nil {
			t.Error("Build() error = nil, wanted marshal error")
		}
	})
}

func TestBindYAML(t *testing.T) {
	p, err := promptbuilder.MustNewPrompt("{{groups}}").BindYAML("groups", map[string][]string{"Level": {"A", "B"}})
	if err != nil {
		t.Fatalf("BindYAML() error = %v", err)
	}
	got, err := p.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if want := "Level:\n    - A\n    - B\n"; got != want {
		t.Errorf("Build() = %q, wanted %q", got, want)
	}
}

type greeting struct {
	name string
}

func (g greeting) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	return p.BindText("name", g.name)
}

func TestRender(t *testing.T) {
	got, err := promptbuilder.Render(promptbuilder.MustNewPrompt("Hello {{name}}!"), greeting{name: "World"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "Hello World!" {
		t.Errorf("Render() = %q, wanted %q", got, "Hello World!")
	}
}

func TestMustPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNewPrompt() did not panic on invalid template")
		}
	}()
	promptbuilder.MustNewPrompt("{{unclosed")
}
