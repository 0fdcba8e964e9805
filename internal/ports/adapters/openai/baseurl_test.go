package openai

import "testing"

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name         string
		baseURL      string
		allowedHosts []string
		wantErr      bool
	}{
		{name: "empty uses default", baseURL: ""},
		{name: "default host", baseURL: "https://api.openai.com/"},
		{name: "reject non-absolute URL", baseURL: "api.openai.com", wantErr: true},
		{name: "reject http", baseURL: "http://api.openai.com", wantErr: true},
		{name: "reject unknown host", baseURL: "https://evil.example", wantErr: true},
		{name: "reject userinfo", baseURL: "https://u:p@api.openai.com", wantErr: true},
		{name: "reject fragment", baseURL: "https://api.openai.com#x", wantErr: true},
		{
			name:         "allow configured host with port",
			baseURL:      "https://proxy.internal:8443",
			allowedHosts: []string{" https://proxy.internal:8443/ "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaseURL(tt.baseURL, tt.allowedHosts)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseAllowedHosts(t *testing.T) {
	got := ParseAllowedHosts(" a.example , ,b.example")
	if len(got) != 2 || got[0] != "a.example" || got[1] != "b.example" {
		t.Fatalf("unexpected hosts: %q", got)
	}
	if ParseAllowedHosts("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
