package client

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

// debug logs would drown the test output
func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}
