package tool

import "testing"

func TestBuildAjaxUploadURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://nca.example.org/upload/sftp", "https://nca.example.org/upload/sftp/ajax", false},
		{"http://localhost:8080/upload/scan/", "http://localhost:8080/upload/scan/ajax", false},
		{"  http://host  ", "http://host/ajax", false},
		{"", "", true},
		{"ftp://host/upload", "", true},
		{"/upload/sftp", "", true},
	}
	for _, tt := range tests {
		got, err := BuildAjaxUploadURL(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("BuildAjaxUploadURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("BuildAjaxUploadURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUploadHost(t *testing.T) {
	host, err := UploadHost("https://nca.example.org:8443/upload")
	if err != nil {
		t.Fatalf("UploadHost: %v", err)
	}
	if host != "nca.example.org" {
		t.Errorf("host = %q", host)
	}
	if _, err := UploadHost("/relative/only"); err == nil {
		t.Error("expected error for form action without host")
	}
}
