package config

import "testing"

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	c := Default()
	c.Port = 0
	if err := c.Validate(); err == nil {
		t.Fatalf("expected an error for port 0")
	}
}

func TestValidateRejectsUnknownGameMode(t *testing.T) {
	c := Default()
	c.GameMode = "deathmatch"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected an error for an unregistered game mode")
	}
}

func TestValidateRejectsZeroMapDimension(t *testing.T) {
	c := Default()
	c.MapHeight = 0
	if err := c.Validate(); err == nil {
		t.Fatalf("expected an error for a zero map dimension")
	}
}

func TestNewMapUsesConfiguredDimensions(t *testing.T) {
	c := Default()
	c.MapWidth, c.MapLength, c.MapHeight = 16, 16, 8
	m := c.NewMap()
	if !m.Solid(0, 0, 7) {
		t.Fatalf("expected the configured ground plane to be solid")
	}
}
