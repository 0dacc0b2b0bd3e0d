package hub

import (
	"errors"
	"testing"
)

func TestItemInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      ItemInput
		wantErr bool
	}{
		{
			name:    "title and link present",
			in:      ItemInput{Title: "Wiki", Link: "https://wiki.local"},
			wantErr: false,
		},
		{
			name:    "optional fields present",
			in:      ItemInput{Title: "Wiki", Subtitle: "docs", Link: "https://wiki.local", Image: "https://img.local/w.png"},
			wantErr: false,
		},
		{
			name:    "missing title",
			in:      ItemInput{Link: "https://x"},
			wantErr: true,
		},
		{
			name:    "missing link",
			in:      ItemInput{Title: "Wiki"},
			wantErr: true,
		},
		{
			name:    "missing both",
			in:      ItemInput{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("Validate() error type = %T, want *ValidationError", err)
				}
				if verr.Message != "Title and link required" {
					t.Errorf("message = %q, want %q", verr.Message, "Title and link required")
				}
			}
		})
	}
}
