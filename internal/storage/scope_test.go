package storage

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		scopes []Scope
		want   []Scope
	}{
		{"empty", nil, []Scope{}},
		{"dedupe", []Scope{GroupScope("a"), GroupScope("a"), Personal()}, []Scope{GroupScope("a"), Personal()}},
		{"all wins", []Scope{GroupScope("a"), AllScopes()}, []Scope{AllScopes()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.scopes)
			if len(got) != len(tt.want) {
				t.Fatalf("Normalize(%v) = %v, want %v", tt.scopes, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Normalize(%v)[%d] = %v, want %v", tt.scopes, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScopeCovers(t *testing.T) {
	if !AllScopes().Covers("g1") || !AllScopes().Covers("") {
		t.Error("AllScopes should cover everything")
	}
	if !GroupScope("g1").Covers("g1") || GroupScope("g1").Covers("g2") {
		t.Error("GroupScope should cover only its group")
	}
	if !Personal().Covers("") || Personal().Covers("g1") {
		t.Error("Personal should cover only entries without a group")
	}
}
