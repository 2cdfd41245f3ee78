package domain

import "testing"

// TestDetectLanguage tests first-match-wins classification
func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Language
	}{
		{"urdu script", "مجھے بخار ہے", LanguageUrduScript},
		{"mixed script wins over roman", "mujhe dard hai یہاں", LanguageUrduScript},
		{"roman marker", "mujhe bukhar hai", LanguageRomanUrdu},
		{"roman marker case insensitive", "Sir MEIN dard", LanguageRomanUrdu},
		{"roman marker with punctuation", "dard!", LanguageRomanUrdu},
		{"english", "I have a fever", LanguageEnglish},
		{"marker inside a word does not count", "kaleidoscope shaired", LanguageEnglish},
		{"empty", "", LanguageEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.text); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

// TestContainsNativeScript tests the Arabic block boundaries
func TestContainsNativeScript(t *testing.T) {
	if !ContainsNativeScript("\u0600") || !ContainsNativeScript("x\u06FF") {
		t.Error("expected block boundaries to count as native script")
	}
	if ContainsNativeScript("\u05FF\u0700 hello") {
		t.Error("expected characters outside the block to not count")
	}
}

// TestHistoryViewCanonical tests view aliases
func TestHistoryViewCanonical(t *testing.T) {
	tests := []struct {
		in     HistoryView
		want   HistoryView
		wantOK bool
	}{
		{HistoryViewOriginal, HistoryViewOriginal, true},
		{HistoryViewPatient, HistoryViewOriginal, true},
		{"", HistoryViewOriginal, true},
		{HistoryViewNormalized, HistoryViewNormalized, true},
		{HistoryViewDoctor, HistoryViewNormalized, true},
		{"nurse", "", false},
	}

	for _, tt := range tests {
		got, ok := tt.in.Canonical()
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Canonical(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
