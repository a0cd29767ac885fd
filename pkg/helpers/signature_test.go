package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestSignPaymentMatchesHMAC(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("order_abc|pay_123"))
	want := hex.EncodeToString(mac.Sum(nil))

	if got := SignPayment("secret", "order_abc", "pay_123"); got != want {
		t.Fatalf("SignPayment = %s, want %s", got, want)
	}
	if !VerifyPaymentSignature("secret", "order_abc", "pay_123", want) {
		t.Fatal("valid signature rejected")
	}
}

func TestVerifyPaymentSignatureRejectsBitFlips(t *testing.T) {
	sig := SignPayment("secret", "order_abc", "pay_123")
	raw := []byte(sig)
	for i := range raw {
		for bit := 0; bit < 8; bit++ {
			tampered := make([]byte, len(raw))
			copy(tampered, raw)
			tampered[i] ^= 1 << bit
			if VerifyPaymentSignature("secret", "order_abc", "pay_123", string(tampered)) {
				t.Fatalf("tampered signature accepted (byte %d bit %d)", i, bit)
			}
		}
	}
}

func TestVerifyPaymentSignatureRejectsSwappedFields(t *testing.T) {
	sig := SignPayment("secret", "order_abc", "pay_123")
	cases := []struct {
		name, secret, order, payment, sig string
	}{
		{"other order", "secret", "order_abd", "pay_123", sig},
		{"other payment", "secret", "order_abc", "pay_124", sig},
		{"other secret", "secret2", "order_abc", "pay_123", sig},
		{"empty secret", "", "order_abc", "pay_123", SignPayment("", "order_abc", "pay_123")},
		{"empty signature", "secret", "order_abc", "pay_123", ""},
		{"truncated", "secret", "order_abc", "pay_123", sig[:len(sig)-2]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if VerifyPaymentSignature(tc.secret, tc.order, tc.payment, tc.sig) {
				t.Fatal("signature accepted")
			}
		})
	}
}
