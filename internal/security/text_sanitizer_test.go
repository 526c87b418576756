package security

import "testing"

func TestTextSanitizer_Sanitize(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"空文字列", "", ""},
		{"プレーンテキスト", "Juan Pérez", "Juan Pérez"},
		{"タグ除去", "<b>Conferencia</b> empresarial", "Conferencia empresarial"},
		{"scriptは中身ごと除去", "<script>alert(1)</script>Boda", "Boda"},
		{"属性付きタグ", `<img src="x" onerror="alert(1)">Max`, "Max"},
		{"アンパサンドは保持", "Pérez & Hijos", "Pérez & Hijos"},
		{"空白の正規化", "  Cumpleaños \n\t de   Ana ", "Cumpleaños de Ana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextSanitizer_Idempotent(t *testing.T) {
	s := NewTextSanitizer()
	inputs := []string{"<p>Hola</p> mundo", "a & b", "Fiesta <i>sorpresa</i>"}

	for _, in := range inputs {
		once := s.Sanitize(in)
		if twice := s.Sanitize(once); twice != once {
			t.Errorf("not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}
