package validator

import "testing"

type uploadForm struct {
	Title    string `validate:"notblank,max=255"`
	Filename string `validate:"required,audiofile"`
}

func TestValidate(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		form    uploadForm
		wantErr bool
	}{
		{name: "valid", form: uploadForm{Title: "Sprint planning", Filename: "rec.MP3"}},
		{name: "blank title", form: uploadForm{Title: "   ", Filename: "rec.mp3"}, wantErr: true},
		{name: "bad extension", form: uploadForm{Title: "Standup", Filename: "notes.txt"}, wantErr: true},
		{name: "no extension", form: uploadForm{Title: "Standup", Filename: "recording"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.form)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
