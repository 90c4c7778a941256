package settings

import (
	"strings"
	"testing"
)

func TestCoerceUpdate(t *testing.T) {
	tests := []struct {
		name    string
		current any
		raw     string
		want    any
		wantErr string
	}{
		{
			name:    "string identity",
			current: "moby",
			raw:     "containerd",
			want:    "containerd",
		},
		{
			name:    "empty string is a valid string value",
			current: "k8s.io",
			raw:     "",
			want:    "",
		},
		{
			name:    "string target keeps numeric text verbatim",
			current: "1.23.6",
			raw:     "7",
			want:    "7",
		},
		{
			name:    "boolean true",
			current: false,
			raw:     "true",
			want:    true,
		},
		{
			name:    "boolean false",
			current: true,
			raw:     "false",
			want:    false,
		},
		{
			name:    "boolean literals are case-sensitive",
			current: false,
			raw:     "True",
			wantErr: "Can't evaluate --leaf=True as boolean",
		},
		{
			name:    "leading whitespace disqualifies a boolean literal",
			current: false,
			raw:     " true",
			wantErr: "Can't evaluate --leaf= true as boolean",
		},
		{
			name:    "trailing newline disqualifies a boolean literal",
			current: true,
			raw:     "false\n",
			wantErr: "as boolean",
		},
		{
			name:    "integer",
			current: float64(6443),
			raw:     "6444",
			want:    float64(6444),
		},
		{
			name:    "float",
			current: float64(2),
			raw:     "2.5",
			want:    float64(2.5),
		},
		{
			name:    "exponent notation is a JSON numeric literal",
			current: float64(2),
			raw:     "1e3",
			want:    float64(1000),
		},
		{
			name:    "number from garbage",
			current: float64(6443),
			raw:     "angeles",
			wantErr: "as number: invalid character 'a'",
		},
		{
			name:    "boolean offered to number",
			current: float64(2),
			raw:     "true",
			wantErr: "Type of 'true' is boolean, but current type of leaf is number",
		},
		{
			name:    "quoted string offered to number",
			current: float64(2),
			raw:     `"7"`,
			wantErr: `Type of '"7"' is string, but current type of leaf is number`,
		},
		{
			name:    "number offered to boolean",
			current: true,
			raw:     "7",
			wantErr: "Type of '7' is number, but current type of leaf is boolean",
		},
		{
			name:    "null offered to boolean",
			current: true,
			raw:     "null",
			wantErr: "Type of 'null' is null, but current type of leaf is boolean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceUpdate("leaf", tt.current, tt.raw)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}
