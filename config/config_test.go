package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PAYMENT_CURRENCY", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("GATEWAY_TIMEOUT", "")
	c := Load()
	if c.PaymentCurrency != "INR" {
		t.Errorf("PaymentCurrency = %q", c.PaymentCurrency)
	}
	if c.StoreDriver != "postgres" {
		t.Errorf("StoreDriver = %q", c.StoreDriver)
	}
	if c.GatewayTimeout != 10*time.Second {
		t.Errorf("GatewayTimeout = %v", c.GatewayTimeout)
	}
	if c.OrderPersistAttempts != 3 {
		t.Errorf("OrderPersistAttempts = %d", c.OrderPersistAttempts)
	}
}

func TestLoadOverridesAndBadValues(t *testing.T) {
	t.Setenv("PAYMENT_CURRENCY", "usd")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("GATEWAY_TIMEOUT", "not-a-duration")
	t.Setenv("ENTITLEMENT_CACHE_TTL", "30s")
	c := Load()
	if c.PaymentCurrency != "USD" {
		t.Errorf("PaymentCurrency = %q", c.PaymentCurrency)
	}
	if c.StoreDriver != "memory" {
		t.Errorf("StoreDriver = %q", c.StoreDriver)
	}
	if c.GatewayTimeout != 10*time.Second {
		t.Errorf("bad duration should fall back, got %v", c.GatewayTimeout)
	}
	if c.EntitlementCacheTTL != 30*time.Second {
		t.Errorf("EntitlementCacheTTL = %v", c.EntitlementCacheTTL)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:                  "development",
			StoreDriver:          "postgres",
			PaymentCurrency:      "INR",
			GatewayTimeout:       time.Second,
			OrderPersistAttempts: 3,
			JWTAccessSecret:      "devaccesssecret",
			JWTRefreshSecret:     "devrefreshsecret",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "development defaults ok", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "mongo" }, wantErr: "STORE_DRIVER"},
		{name: "bad currency", mutate: func(c *Config) { c.PaymentCurrency = "RUPEE" }, wantErr: "PAYMENT_CURRENCY"},
		{name: "zero attempts", mutate: func(c *Config) { c.OrderPersistAttempts = 0 }, wantErr: "ORDER_PERSIST_ATTEMPTS"},
		{name: "production without gateway secret", mutate: func(c *Config) {
			c.Env = "production"
			c.JWTAccessSecret, c.JWTRefreshSecret = "a", "b"
		}, wantErr: "RAZORPAY"},
		{name: "production with dev jwt", mutate: func(c *Config) {
			c.Env = "production"
			c.RazorpayKeyID, c.RazorpayKeySecret = "id", "secret"
		}, wantErr: "JWT"},
		{name: "production ok", mutate: func(c *Config) {
			c.Env = "production"
			c.RazorpayKeyID, c.RazorpayKeySecret = "id", "secret"
			c.JWTAccessSecret, c.JWTRefreshSecret = "a", "b"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestPostgresDSNEscapesCredentials(t *testing.T) {
	c := &Config{DBUser: "app", DBPassword: "p@ss/word", DBHost: "db", DBPort: "5432", DBName: "market", DBSSLMode: "disable"}
	want := "postgres://app:p%40ss%2Fword@db:5432/market?sslmode=disable"
	if got := c.PostgresDSN(); got != want {
		t.Errorf("PostgresDSN = %q, want %q", got, want)
	}
}
