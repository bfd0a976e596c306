package testutils

import (
	"codeme-client/internal/apiclient"
	"codeme-client/internal/auth"
	"codeme-client/internal/config"

	"github.com/stretchr/testify/suite"
)

// TestToken is the bearer token BackendTestSuite logs in with
const TestToken = "test-bearer-token"

// BackendTestSuite gives each test a fresh fake backend and a logged-in
// client pointed at it
type BackendTestSuite struct {
	suite.Suite
	Backend *FakeBackend
	Config  *config.Config
	State   *auth.State
	Client  *apiclient.Client
}

// SetupTest starts the backend and logs in
func (s *BackendTestSuite) SetupTest() {
	s.Backend = NewFakeBackend()
	s.Config = TestConfig(s.Backend.URL())

	state, err := auth.NewState(nil)
	s.Require().NoError(err)
	s.Require().NoError(state.SetToken(TestToken))
	s.State = state

	s.Client = apiclient.New(s.Config, state)
}

// TearDownTest stops the backend
func (s *BackendTestSuite) TearDownTest() {
	if s.Backend != nil {
		s.Backend.Close()
	}
}

// TestConfig returns a valid development config for a backend at baseURL
func TestConfig(baseURL string) *config.Config {
	return &config.Config{
		Environment:     "development",
		Port:            "0",
		LogLevel:        "error",
		APIBaseURL:      baseURL,
		APIV1Str:        "/api/v1",
		HTTPTimeoutSec:  5,
		AuthLoginURL:    baseURL + "/api/v1/auth/google/login",
		MaxUploadSizeMB: 20,
	}
}
