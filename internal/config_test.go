package internal

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.App.HTTP.Address() != ":8080" {
		t.Errorf("Address = %q", cfg.App.HTTP.Address())
	}
	if cfg.Auth.AuthEnabled() {
		t.Error("auth should be disabled by default")
	}
}

func TestHTTPConfigValidate(t *testing.T) {
	cases := []struct {
		port int
		ok   bool
	}{
		{8080, true},
		{1, true},
		{65535, true},
		{0, false},
		{-1, false},
		{70000, false},
	}
	for _, tc := range cases {
		c := HTTPConfig{Port: tc.port}
		err := c.Validate()
		if tc.ok && err != nil {
			t.Errorf("port %d: unexpected error %v", tc.port, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("port %d: expected error", tc.port)
		}
	}
}

func TestAuthConfigValidate(t *testing.T) {
	c := AuthConfig{}
	if err := c.Validate(); err != nil {
		t.Errorf("empty auth config should normalise to disabled: %v", err)
	}
	if c.Mode != AuthModeDisabled {
		t.Errorf("Mode = %q, want disabled", c.Mode)
	}

	c = AuthConfig{Mode: AuthModeToken}
	if err := c.Validate(); err == nil {
		t.Error("token mode without a token should be invalid")
	}

	c = AuthConfig{Mode: AuthModeToken, Token: "sekrit"}
	if err := c.Validate(); err != nil {
		t.Errorf("token mode with token: %v", err)
	}
	if !c.AuthEnabled() {
		t.Error("AuthEnabled should be true in token mode")
	}

	c = AuthConfig{Mode: "mtls"}
	if err := c.Validate(); err == nil {
		t.Error("unknown auth mode should be invalid")
	}
}
