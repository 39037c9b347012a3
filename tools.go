//go:build tools

package tools

// CLI tools used by go:generate. Install with
// go install <path>@<version> rather than importing them:
// - github.com/matryer/moq (service and middleware mocks)
// - github.com/pressly/goose/v3/cmd/goose (ad-hoc migrations; cmd/migrate covers the embedded set)
