package token

import (
	"strings"
	"testing"
)

func TestTokenGenerator_Generate(t *testing.T) {
	generator := NewTokenGenerator()

	token, err := generator.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(token) != TokenLength {
		t.Errorf("token length = %d, want %d", len(token), TokenLength)
	}

	if strings.Trim(token, "0123456789abcdef") != "" {
		t.Errorf("token %q contains non-hex characters", token)
	}

	if !generator.Validate(token) {
		t.Error("generated token should validate")
	}
}

func TestTokenGenerator_Generate_Uniqueness(t *testing.T) {
	generator := NewTokenGenerator()

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		token, err := generator.Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token after %d generations", i)
		}
		seen[token] = struct{}{}
	}
}

func TestTokenGenerator_Validate(t *testing.T) {
	generator := NewTokenGenerator()
	valid := strings.Repeat("ab12", 16)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "valid token", token: valid, want: true},
		{name: "empty token", token: "", want: false},
		{name: "too short", token: valid[:63], want: false},
		{name: "too long", token: valid + "0", want: false},
		{name: "uppercase hex", token: strings.ToUpper(valid), want: false},
		{name: "non hex character", token: valid[:63] + "g", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generator.Validate(tt.token); got != tt.want {
				t.Errorf("Validate(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}
