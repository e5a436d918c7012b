package langhint

import (
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		script string
		lang   string
	}{
		{
			name:   "japanese kana",
			in:     "こんにちは世界、元気ですか。今日はとても良い天気ですね。",
			script: "Hiragana",
			lang:   "ja",
		},
		{
			name:   "korean",
			in:     "안녕하세요 오늘은 날씨가 정말 좋습니다 감사합니다",
			script: "Hangul",
			lang:   "ko",
		},
		{
			name:   "greek",
			in:     "Καλημέρα σας, πώς είστε σήμερα; Ελπίζω να είστε καλά.",
			script: "Greek",
			lang:   "el",
		},
		{
			name:   "latin script but no language",
			in:     "The quick brown fox jumps over the lazy dog",
			script: "Latin",
			lang:   "",
		},
		{
			name:   "han ambiguous",
			in:     "今天天气很好我们一起去公园散步吧这里风景优美",
			script: "Han",
			lang:   "",
		},
		{
			name:   "cyrillic ambiguous",
			in:     "Сегодня хорошая погода и мы гуляем в парке",
			script: "Cyrillic",
			lang:   "",
		},
		{
			name:   "too short for language",
			in:     "привет",
			script: "Cyrillic",
			lang:   "",
		},
		{
			name:   "no letters",
			in:     "123 456-789 !!!",
			script: "",
			lang:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Detect(tt.in)
			if h.Script != tt.script {
				t.Fatalf("Detect(%q).Script = %q, want %q", tt.in, h.Script, tt.script)
			}
			if h.Lang != tt.lang {
				t.Fatalf("Detect(%q).Lang = %q, want %q", tt.in, h.Lang, tt.lang)
			}
		})
	}
}

func TestDetect_LongInputSampled(t *testing.T) {
	// Over the sample cap; the trailing Japanese falls outside the sample
	long := strings.Repeat("hello world ", 400) + "日本語"
	h := Detect(long)
	if h.Script != "Latin" {
		t.Fatalf("Script = %q, want Latin", h.Script)
	}
}
