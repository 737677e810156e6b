package segmenter

import "testing"

func TestTitleDetector_IsTitle(t *testing.T) {
	d := NewTitleDetector()

	tests := []struct {
		name string
		line string
		want bool
	}{
		{"numeric heading", "1 Introducción", true},
		{"dotted numeric heading", "1.2 Alcance", true},
		{"deep numeric heading", "1.2.3 Control de accesos", true},
		{"numeric with trailing colon", "1.2 Alcance:", false},
		{"numeric without capital", "1.2 alcance", false},
		{"single letter heading", "A Resumen ejecutivo", true},
		{"roman heading", "IV Antecedentes", true},
		{"lowercase roman heading", "iv Antecedentes", true},
		{"malformed roman run", "MIMI Algo", false},
		{"iso reference", "ISO 27001", false},
		{"iso caps line", "ISO NORMATIVA", false},
		{"all caps", "POLÍTICA DE SEGURIDAD", true},
		{"all caps with digits", "CAPITULO 27", false},
		{"below minimum length", "a", false},
		{"short caps", "OK", false},
		{"plain sentence", "Este apartado describe los controles.", false},
		{"empty line", "", false},
		{"whitespace only", "      ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsTitle(tt.line); got != tt.want {
				t.Errorf("IsTitle(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestTitleDetector_MinLength(t *testing.T) {
	d := NewTitleDetector(WithMinTitleLength(20))

	if d.IsTitle("1.2 Alcance") {
		t.Error("line below custom minimum should not be a title")
	}
	if !d.IsTitle("1.2 Alcance del documento") {
		t.Error("line above custom minimum should be a title")
	}
}

func TestTitleDetector_ExtractTitles(t *testing.T) {
	d := NewTitleDetector()

	text := "1 Introducción\nEste documento describe el sistema.\nOBJETIVOS GENERALES\nMás contenido aquí."
	titles := d.ExtractTitles(text)

	if len(titles) != 2 {
		t.Fatalf("expected 2 titles, got %d: %v", len(titles), titles)
	}
	if titles[0] != "1 Introducción" {
		t.Errorf("expected first title '1 Introducción', got %q", titles[0])
	}
	if titles[1] != "OBJETIVOS GENERALES" {
		t.Errorf("expected second title 'OBJETIVOS GENERALES', got %q", titles[1])
	}
}

func TestTitleDetector_ExtractTitles_None(t *testing.T) {
	d := NewTitleDetector()

	if titles := d.ExtractTitles("sin títulos en este texto.\notra línea normal."); titles != nil {
		t.Errorf("expected no titles, got %v", titles)
	}
}
