package media

import (
	"context"
	"testing"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   float64
		audio  int
	}{
		{
			name:   "format duration",
			output: `{"streams":[{"index":0,"codec_type":"audio","codec_name":"mp3"}],"format":{"duration":"1834.560000","format_name":"mp3"}}`,
			want:   1834.56,
			audio:  1,
		},
		{
			name:   "stream fallback",
			output: `{"streams":[{"codec_type":"video","duration":"99"},{"codec_type":"audio","duration":"61.5"},{"codec_type":"audio","duration":"60"}],"format":{"duration":"N/A"}}`,
			want:   61.5,
			audio:  2,
		},
		{
			name:   "nothing usable",
			output: `{"streams":[],"format":{}}`,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse([]byte(tt.output))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := result.DurationSeconds(); got != tt.want {
				t.Fatalf("DurationSeconds() = %v, want %v", got, tt.want)
			}
			if got := result.AudioStreamCount(); got != tt.audio {
				t.Fatalf("AudioStreamCount() = %d, want %d", got, tt.audio)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestProbeMissingBinary(t *testing.T) {
	p := NewProber("/nonexistent/ffprobe-binary")
	if _, err := p.ProbeDuration(context.Background(), []byte("data")); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestProbeEmptyInput(t *testing.T) {
	if _, err := NewProber("").ProbeDuration(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
