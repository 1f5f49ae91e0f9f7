// internal/middleware/logging_test.go
package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionFromPath(t *testing.T) {
	cases := map[string]string{
		"/games/AB12CD":        "AB12CD",
		"/games/AB12CD/action": "AB12CD",
		"/games/ws/AB12CD":     "AB12CD",
		"/games":               "",
		"/games/":              "",
		"/games/ab12cd/action": "", // ids are upper-case
		"/games/TOOLONGID":     "",
		"/health":              "",
	}
	for path, want := range cases {
		assert.Equal(t, want, sessionFromPath(path), "path %q", path)
	}
}
