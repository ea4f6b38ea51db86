package synthesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractImageURL(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "bare string URL",
			body: `"https://cdn.example.com/out/1.png"`,
			want: "https://cdn.example.com/out/1.png",
		},
		{
			name: "list of URLs",
			body: `["https://cdn.example.com/a.png", "https://cdn.example.com/b.png"]`,
			want: "https://cdn.example.com/a.png",
		},
		{
			name: "object with imageURL field",
			body: `{"taskId": "abc", "imageURL": "https://cdn.example.com/c.png"}`,
			want: "https://cdn.example.com/c.png",
		},
		{
			name: "object with snake_case field",
			body: `{"image_url": "https://cdn.example.com/d.png"}`,
			want: "https://cdn.example.com/d.png",
		},
		{
			name: "object with nested data list",
			body: `{"data": [{"url": "https://cdn.example.com/e.png"}]}`,
			want: "https://cdn.example.com/e.png",
		},
		{
			name: "list of objects",
			body: `[{"imageURL": "https://cdn.example.com/f.png"}]`,
			want: "https://cdn.example.com/f.png",
		},
		{
			name:    "empty response",
			body:    ``,
			wantErr: true,
		},
		{
			name:    "empty list",
			body:    `[]`,
			wantErr: true,
		},
		{
			name:    "non-URL string",
			body:    `"not a url"`,
			wantErr: true,
		},
		{
			name:    "object without URL field",
			body:    `{"status": "done"}`,
			wantErr: true,
		},
		{
			name:    "number response",
			body:    `42`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractImageURL([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
