package extract

import "testing"

func TestLanguageForPath(t *testing.T) {
	cases := []struct {
		path string
		lang Language
		ok   bool
	}{
		{"pkg/a.py", LangPython, true},
		{"pkg/a.go", LangGo, true},
		{"web/app.ts", LangTypeScript, true},
		{"web/app.tsx", LangTypeScript, true},
		{"src/main.rs", LangRust, true},
		{"README.md", "", false},
		{"Makefile", "", false},
	}
	for _, c := range cases {
		lang, ok := LanguageForPath(c.path)
		if ok != c.ok || lang != c.lang {
			t.Errorf("LanguageForPath(%q) = (%q, %v), want (%q, %v)", c.path, lang, ok, c.lang, c.ok)
		}
	}
}

func TestParsePython(t *testing.T) {
	source := []byte(`
def f():
    g()
    obj.h()

def g():
    pass
`)
	p := NewParser()
	res, err := p.Parse("a.py", source, LangPython)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	if len(res.Decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d: %v", len(res.Decls), res.Decls)
	}
	if res.Decls[0].Name != "f" || res.Decls[1].Name != "g" {
		t.Errorf("unexpected declarations: %v", res.Decls)
	}
	if res.Decls[0].Line != 2 {
		t.Errorf("expected f declared at line 2, got %d", res.Decls[0].Line)
	}

	want := []Call{{Caller: "f", Callee: "g"}, {Caller: "f", Callee: "h"}}
	if len(res.Calls) != len(want) {
		t.Fatalf("expected %d calls, got %d: %v", len(want), len(res.Calls), res.Calls)
	}
	for i, c := range want {
		if res.Calls[i] != c {
			t.Errorf("call %d: got %v, want %v", i, res.Calls[i], c)
		}
	}
}

func TestParsePythonMethodCallsInsideClass(t *testing.T) {
	source := []byte(`
class C:
    def run(self):
        self.step()

    def step(self):
        pass
`)
	p := NewParser()
	res, err := p.Parse("c.py", source, LangPython)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	if len(res.Decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(res.Decls))
	}
	if len(res.Calls) != 1 || res.Calls[0] != (Call{Caller: "run", Callee: "step"}) {
		t.Errorf("unexpected calls: %v", res.Calls)
	}
}

func TestParseModuleLevelCallsSkipped(t *testing.T) {
	source := []byte(`
def f():
    pass

f()
`)
	p := NewParser()
	res, err := p.Parse("a.py", source, LangPython)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if len(res.Calls) != 0 {
		t.Errorf("expected module-level call skipped, got %v", res.Calls)
	}
}

func TestParseGo(t *testing.T) {
	source := []byte(`package main

func main() {
	run()
	fmt.Println("x")
}

func run() {}

func (s *Server) Start() {
	s.listen()
}
`)
	p := NewParser()
	res, err := p.Parse("main.go", source, LangGo)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	names := make(map[string]bool)
	for _, d := range res.Decls {
		names[d.Name] = true
	}
	for _, want := range []string{"main", "run", "Start"} {
		if !names[want] {
			t.Errorf("missing declaration %q in %v", want, res.Decls)
		}
	}

	callees := make(map[string]string)
	for _, c := range res.Calls {
		callees[c.Callee] = c.Caller
	}
	if callees["run"] != "main" {
		t.Errorf("expected main -> run, got calls %v", res.Calls)
	}
	if callees["Println"] != "main" {
		t.Errorf("expected selector call Println attributed to main, got %v", res.Calls)
	}
	if callees["listen"] != "Start" {
		t.Errorf("expected Start -> listen, got %v", res.Calls)
	}
}

func TestParseTypeScript(t *testing.T) {
	source := []byte(`
function render() {
  update();
  el.focus();
}

function update() {}
`)
	p := NewParser()
	res, err := p.Parse("app.ts", source, LangTypeScript)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if len(res.Decls) != 2 {
		t.Fatalf("expected 2 declarations, got %v", res.Decls)
	}
	if len(res.Calls) != 2 || res.Calls[0] != (Call{Caller: "render", Callee: "update"}) {
		t.Errorf("unexpected calls: %v", res.Calls)
	}
}

func TestParseRust(t *testing.T) {
	source := []byte(`
fn main() {
    run();
    helper::setup();
}

fn run() {}
`)
	p := NewParser()
	res, err := p.Parse("main.rs", source, LangRust)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if len(res.Decls) != 2 {
		t.Fatalf("expected 2 declarations, got %v", res.Decls)
	}

	callees := make(map[string]bool)
	for _, c := range res.Calls {
		callees[c.Callee] = true
	}
	if !callees["run"] || !callees["setup"] {
		t.Errorf("expected calls to run and setup, got %v", res.Calls)
	}
}

func TestParseUnsupportedLanguage(t *testing.T) {
	p := NewParser()
	if _, err := p.Parse("x.zig", nil, Language("zig")); err == nil {
		t.Error("expected error for unsupported language")
	}
}
