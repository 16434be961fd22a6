package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := CreateWalletRequest{Name: "  alice  "}
	SanitizeStruct(&req)

	assert.Equal(t, "alice", req.Name)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := RegisterSubWalletRequest{
		DeviceType: "meter",
		DeviceName: "kitchen <script>alert('x')</script> meter",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.DeviceName, "&lt;script&gt;")
	assert.NotContains(t, req.DeviceName, "<script>")
}

func TestSanitizeStruct_SkipsTaggedFields(t *testing.T) {
	req := RegisterFIRequest{
		ID:           " FI-A ",
		Name:         "A & B Bank",
		Endpoint:     " https://fi-a.example ",
		SharedSecret: "  s3cr3t<&>s3cr3t<&>s3cr3t<&>s3cr3t  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "FI-A", req.ID)
	assert.Equal(t, "A &amp; B Bank", req.Name)
	assert.Equal(t, "https://fi-a.example", req.Endpoint)
	assert.Equal(t, "s3cr3t<&>s3cr3t<&>s3cr3t<&>s3cr3t", req.SharedSecret)

	login := LoginRequest{Username: " op ", Password: " p<a>ss "}
	SanitizeStruct(&login)
	assert.Equal(t, "op", login.Username)
	assert.Equal(t, "p<a>ss", login.Password)
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	type withPtr struct {
		Note *string
		Nil  *string
	}
	note := "  <b>hi</b>  "
	v := withPtr{Note: &note}
	SanitizeStruct(&v)

	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;", *v.Note)
	assert.Nil(t, v.Nil)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"FI-A",
		"fi_002",
		"bank.example",
		"meter",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"FI A",      // space
		"fi<001>",   // angle brackets
		"fi;DROP",   // semicolon
		"",          // empty
		"FI/../CB",  // path traversal
		"fi\n001",   // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestRegisterFIRequest_Validation(t *testing.T) {
	valid := func() RegisterFIRequest {
		return RegisterFIRequest{
			ID:           "FI-A",
			Name:         "Bank A",
			Endpoint:     "https://fi-a.example:8443",
			SharedSecret: "0123456789abcdef0123456789abcdef",
		}
	}
	assert.NoError(t, binding.Validator.ValidateStruct(valid()))

	tests := []struct {
		name   string
		mutate func(r *RegisterFIRequest)
	}{
		{"unsafe id", func(r *RegisterFIRequest) { r.ID = "FI/A" }},
		{"ftp endpoint", func(r *RegisterFIRequest) { r.Endpoint = "ftp://fi-a.example" }},
		{"endpoint with query", func(r *RegisterFIRequest) { r.Endpoint = "https://fi-a.example?x=1" }},
		{"relative endpoint", func(r *RegisterFIRequest) { r.Endpoint = "/fi-a" }},
		{"short secret", func(r *RegisterFIRequest) { r.SharedSecret = "short" }},
		{"non-hex public key", func(r *RegisterFIRequest) { r.PublicKey = "not-hex" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			assert.Error(t, binding.Validator.ValidateStruct(req))
		})
	}
}

func TestTransferRequest_Validation(t *testing.T) {
	req := TransferRequest{
		FromAccountID: "6f1c2a9e-4b7d-4c3e-9a1f-0d2e8b7c6a50",
		ToAccountID:   "7a2d3b0f-5c8e-4d4f-8b2a-1e3f9c8d7b61",
		Amount:        100,
	}
	assert.NoError(t, binding.Validator.ValidateStruct(req))

	req.TargetFI = "FI-B"
	assert.NoError(t, binding.Validator.ValidateStruct(req))

	req.TargetFI = "FI B"
	assert.Error(t, binding.Validator.ValidateStruct(req))

	req.TargetFI = ""
	req.ToAccountID = "not-a-uuid"
	assert.Error(t, binding.Validator.ValidateStruct(req))
}
