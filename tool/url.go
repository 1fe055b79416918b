package tool

import (
	"fmt"
	"net/url"
	"strings"
)

// AjaxUploadSuffix is appended to the form action to get the upload endpoint.
const AjaxUploadSuffix = "/ajax"

// BuildAjaxUploadURL builds the AJAX upload endpoint from the upload form's action.
func BuildAjaxUploadURL(formAction string) (string, error) {
	formAction = strings.TrimSpace(formAction)
	if formAction == "" {
		return "", fmt.Errorf("form action is empty")
	}
	u, err := url.Parse(formAction)
	if err != nil {
		return "", fmt.Errorf("failed to parse form action: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("form action must be an http(s) URL: %s", formAction)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + AjaxUploadSuffix
	return u.String(), nil
}

// UploadHost returns the bare host name of the form action, for probing.
func UploadHost(formAction string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(formAction))
	if err != nil {
		return "", fmt.Errorf("failed to parse form action: %w", err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("form action has no host: %s", formAction)
	}
	return u.Hostname(), nil
}
