package bot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseGrantArgs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    GrantArgs
		wantErr bool
	}{
		{
			name:  "well formed",
			input: "123456 | 30 | Gold",
			want:  GrantArgs{UserID: 123456, Days: 30, Package: "Gold"},
		},
		{
			name:  "no spaces",
			input: "123456|7|Silver",
			want:  GrantArgs{UserID: 123456, Days: 7, Package: "Silver"},
		},
		{
			name:  "package with spaces",
			input: "9 | 1 | Family Pack",
			want:  GrantArgs{UserID: 9, Days: 1, Package: "Family Pack"},
		},
		{
			name:    "missing field",
			input:   "123456 | 30",
			wantErr: true,
		},
		{
			name:    "extra field",
			input:   "1 | 2 | 3 | 4",
			wantErr: true,
		},
		{
			name:    "non-numeric user id",
			input:   "bob | 30 | Gold",
			wantErr: true,
		},
		{
			name:    "non-numeric days",
			input:   "123456 | thirty | Gold",
			wantErr: true,
		},
		{
			name:    "zero days",
			input:   "123456 | 0 | Gold",
			wantErr: true,
		},
		{
			name:    "negative days",
			input:   "123456 | -5 | Gold",
			wantErr: true,
		},
		{
			name:    "empty package",
			input:   "123456 | 30 | ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGrantArgs(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain", input: "123456", want: 123456},
		{name: "padded", input: "  123456  ", want: 123456},
		{name: "empty", input: "", wantErr: true},
		{name: "words", input: "bob", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUserID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseClickTarget(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "min", input: "1", want: 1},
		{name: "max", input: "20", want: 20},
		{name: "padded", input: " 5 ", want: 5},
		{name: "zero", input: "0", wantErr: true},
		{name: "too big", input: "21", wantErr: true},
		{name: "words", input: "three", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClickTarget(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
