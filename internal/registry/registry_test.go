package registry

import "testing"

func TestHas(t *testing.T) {
	tests := []struct {
		lang string
		want bool
	}{
		{"python", true},
		{"javascript", true},
		{"go", true},
		{"c", true},
		{"cpp", true},
		{"java", true},
		{"ruby", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Has(tt.lang); got != tt.want {
			t.Errorf("Has(%q) = %v, want %v", tt.lang, got, tt.want)
		}
	}
}

func TestGetCompiledLanguagesHaveEmptyRunPath(t *testing.T) {
	for _, id := range []string{"go", "c", "cpp"} {
		r, ok := Get(id)
		if !ok {
			t.Fatalf("Get(%q) missing", id)
		}
		if !r.IsCompiled {
			t.Errorf("%s: expected IsCompiled", id)
		}
		if r.RunPath != "" {
			t.Errorf("%s: expected empty RunPath for a directly-executable artifact, got %q", id, r.RunPath)
		}
	}
}

func TestGetJavaUsesInterpreterRunPath(t *testing.T) {
	r, ok := Get("java")
	if !ok {
		t.Fatal("Get(java) missing")
	}
	if !r.IsCompiled {
		t.Error("expected IsCompiled")
	}
	if r.RunPath == "" {
		t.Error("expected non-empty RunPath for java, since javac output is run through the java interpreter rather than executed directly")
	}
}

func TestPublicViewHidesInternalPaths(t *testing.T) {
	view := PublicView()
	if len(view) != len(records) {
		t.Fatalf("PublicView length = %d, want %d", len(view), len(records))
	}
	for id, rec := range view {
		if rec.ID != id {
			t.Errorf("record for %q has ID %q", id, rec.ID)
		}
		if rec.WallTimeoutMs <= 0 {
			t.Errorf("%s: expected positive WallTimeoutMs", id)
		}
	}
}

func TestGetUnknownLanguage(t *testing.T) {
	if _, ok := Get("cobol"); ok {
		t.Error("expected Get(cobol) to report not-found")
	}
}
