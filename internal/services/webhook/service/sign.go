package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the body signature on every delivery
const SignatureHeader = "X-DataPulse-Signature"

const sigPrefix = "v1="

// Sign returns the header value for body: v1=<hex hmac sha256>
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return sigPrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a received header value in constant time
func Verify(secret, body []byte, header string) bool {
	if !strings.HasPrefix(header, sigPrefix) {
		return false
	}
	return hmac.Equal([]byte(Sign(secret, body)), []byte(header))
}
