package webhooks

import "testing"

func TestVerifyRoundTrip(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"meta":{"event_name":"subscription_created"}}`)

	sig := Sign(secret, body)
	if !Verify(secret, body, sig) {
		t.Error("valid signature should verify")
	}
}

func TestVerifyTamperedBody(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"amount":100}`)
	sig := Sign(secret, body)

	tampered := []byte(`{"amount":999}`)
	if Verify(secret, tampered, sig) {
		t.Error("tampered body must not verify")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	body := []byte(`{}`)
	sig := Sign("secret-a", body)

	if Verify("secret-b", body, sig) {
		t.Error("signature from a different secret must not verify")
	}
}

func TestVerifyMissingSignature(t *testing.T) {
	if Verify("whsec_test", []byte(`{}`), "") {
		t.Error("empty signature must not verify")
	}
}

func TestVerifyEmptySecret(t *testing.T) {
	body := []byte(`{}`)
	sig := Sign("", body)

	// An unconfigured secret rejects everything, even a signature that
	// would match the empty key.
	if Verify("", body, sig) {
		t.Error("empty secret must reject all requests")
	}
}

func TestVerifyNonHexSignature(t *testing.T) {
	if Verify("whsec_test", []byte(`{}`), "not-hex!") {
		t.Error("non-hex signature must not verify")
	}
}
