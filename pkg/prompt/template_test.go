package prompt

import "testing"

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		text string
		vars map[string]any
		want string
	}{
		{
			name: "single placeholder",
			text: "Analyze sentiment for {{subject}}",
			vars: map[string]any{"subject": "bitcoin"},
			want: "Analyze sentiment for bitcoin",
		},
		{
			name: "repeated placeholder",
			text: "{{coin}} vs {{coin}}",
			vars: map[string]any{"coin": "eth"},
			want: "eth vs eth",
		},
		{
			name: "missing key left intact",
			text: "hello {{name}}",
			vars: map[string]any{"other": "x"},
			want: "hello {{name}}",
		},
		{
			name: "non-string value",
			text: "top {{n}} results",
			vars: map[string]any{"n": 10},
			want: "top 10 results",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewTemplate(tt.text).Render(tt.vars); got != tt.want {
				t.Fatalf("Render = %q, want %q", got, tt.want)
			}
		})
	}
}
