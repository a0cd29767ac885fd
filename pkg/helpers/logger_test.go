package helpers

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerStampsFields(t *testing.T) {
	logger := NewLogger("marketplace-api", "production", "warn")
	if logger.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %v, want warn", logger.GetLevel())
	}
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.WithField("order_id", "order_abc").Warn("settle retried")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if line["app"] != "marketplace-api" || line["env"] != "production" || line["order_id"] != "order_abc" {
		t.Errorf("line = %v", line)
	}
}

func TestNewLoggerIgnoresBadLevel(t *testing.T) {
	logger := NewLogger("x", "development", "chatty")
	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", logger.GetLevel())
	}
}
