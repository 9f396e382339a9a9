// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// # Confirmation Codes
//
// Signup confirmation codes are derived, never stored. The code is an HMAC
// over the user's current persisted state, so it is re-derivable on every
// request and implicitly invalidated the moment that state changes (username
// edit, role change, profile update). Nothing is consumed on verification,
// which makes re-delivery and retries free.

const (
	// codeKeyIterations is the PBKDF2 iteration count for stretching the
	// application secret into the HMAC key. Stretching happens once at
	// startup, so a high count costs nothing per request.
	codeKeyIterations = 16384

	// codeKeyLength is the derived HMAC key size in bytes.
	codeKeyLength = 32

	// codeLength is the number of base32 characters exposed to the user.
	codeLength = 32
)

// codeKeySalt domain-separates the confirmation-code key from any other use
// of the application secret.
var codeKeySalt = []byte("revio.confirmation-code.v1")

// ConfirmationState is the exact slice of user state a confirmation code is
// bound to. Any change to one of these fields invalidates outstanding codes.
type ConfirmationState struct {
	UserID    string
	Username  string
	Email     string
	Role      string
	UpdatedAt int64 // Unix seconds of the user's last modification
}

// fingerprint renders the state canonically for MAC input.
func (state ConfirmationState) fingerprint() string {
	return fmt.Sprintf("%s\x00%s\x00%s\x00%s\x00%d",
		state.UserID, state.Username, state.Email, state.Role, state.UpdatedAt)
}

// CodeService issues and verifies signup confirmation codes.
//
// # Concurrency
//
// The service is immutable after construction and safe for concurrent use.
type CodeService struct {
	key []byte
}

// NewCodeService stretches the application secret into the code-derivation key.
func NewCodeService(secret string) *CodeService {
	key := pbkdf2.Key([]byte(secret), codeKeySalt, codeKeyIterations, codeKeyLength, sha256.New)
	return &CodeService{key: key}
}

// Issue derives the confirmation code for the given user state.
func (service *CodeService) Issue(state ConfirmationState) string {
	mac := hmac.New(sha256.New, service.key)
	mac.Write([]byte(state.fingerprint()))

	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(mac.Sum(nil))
	return strings.ToLower(encoded[:codeLength])
}

// Verify reports whether code matches the user's current state.
//
// Comparison is constant-time. Verification consumes nothing: a failed
// attempt leaves the code valid for retry.
func (service *CodeService) Verify(state ConfirmationState, code string) bool {
	expected := service.Issue(state)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(code))))
}
