//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Screen positions of the login page with the ready line on row 0
const (
	toggleRow      = 6
	searchRow      = 9
	firstOptionRow = 10
	contentCol     = 4
)

// TestIssuer is one [[issuers]] entry of a test config
type TestIssuer struct {
	ID   string
	Name string
	Tags []string
}

// defaultIssuers are listed by label order on the page
var defaultIssuers = []TestIssuer{
	{ID: "https://accounts.google.com", Name: "Google", Tags: []string{"oauth", "oidc"}},
	{ID: "okta-1", Name: "Okta", Tags: []string{"saml"}},
	{ID: "https://idp.example.edu", Name: "University"},
}

// CreateTestWorkspace creates a temporary directory acting as $HOME
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// WriteConfig writes a config file listing issuers into the workspace
func (tf *TUITestFramework) WriteConfig(method string, issuers []TestIssuer) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}

	var b strings.Builder
	b.WriteString("[login]\n")
	b.WriteString("title = \"E2E Login\"\n")
	b.WriteString("action = \"https://auth.example.org/login\"\n")
	fmt.Fprintf(&b, "method = %q\n", method)
	for _, iss := range issuers {
		b.WriteString("\n[[issuers]]\n")
		fmt.Fprintf(&b, "id = %q\n", iss.ID)
		fmt.Fprintf(&b, "display_name = %q\n", iss.Name)
		if len(iss.Tags) > 0 {
			quoted := make([]string, len(iss.Tags))
			for i, tag := range iss.Tags {
				quoted[i] = fmt.Sprintf("%q", tag)
			}
			fmt.Fprintf(&b, "tags = [%s]\n", strings.Join(quoted, ", "))
		}
	}

	path := filepath.Join(tf.workspace, "issuerpick.toml")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	tf.configPath = path
	return path, nil
}

// StartLoginPage creates a workspace with the default issuers and starts
// the application on it
func (tf *TUITestFramework) StartLoginPage(args ...string) error {
	if _, err := tf.CreateTestWorkspace(); err != nil {
		return err
	}
	path, err := tf.WriteConfig("GET", defaultIssuers)
	if err != nil {
		return err
	}
	return tf.StartApp(append([]string{"--config", path}, args...)...)
}

// ClickToggle clicks the issuer dropdown button
func (tf *TUITestFramework) ClickToggle() error {
	return tf.Click(contentCol, toggleRow)
}

// ClickOption clicks the i-th visible option row
func (tf *TUITestFramework) ClickOption(i int) error {
	return tf.Click(contentCol, firstOptionRow+i)
}

// ClickOutside clicks the blank area right of the page
func (tf *TUITestFramework) ClickOutside() error {
	return tf.Click(100, 1)
}
