package utils

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestEncryptDecrypt(t *testing.T) {
	key, err := DecodeKey(testSecret)
	require.NoError(t, err)

	sealed, err := Encrypt([]byte("access-token-secret"), key)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "access-token-secret")

	plain, err := Decrypt(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, "access-token-secret", plain)
}

func TestEncrypt_UsesFreshNonce(t *testing.T) {
	key, err := DecodeKey(testSecret)
	require.NoError(t, err)

	a, err := Encrypt([]byte("same"), key)
	require.NoError(t, err)
	b, err := Encrypt([]byte("same"), key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecrypt_WrongKey(t *testing.T) {
	key, err := DecodeKey(testSecret)
	require.NoError(t, err)
	other, err := DecodeKey(strings.Repeat("ab", 32))
	require.NoError(t, err)

	sealed, err := Encrypt([]byte("secret"), key)
	require.NoError(t, err)

	_, err = Decrypt(sealed, other)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecrypt_RejectsMalformedInput(t *testing.T) {
	key, err := DecodeKey(testSecret)
	require.NoError(t, err)

	_, err = Decrypt("not base64!", key)
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = Decrypt(base64.StdEncoding.EncodeToString([]byte("short")), key)
	assert.ErrorIs(t, err, ErrCiphertextTooShort)

	sealed, err := Encrypt([]byte("secret"), key)
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = Decrypt(base64.StdEncoding.EncodeToString(raw), key)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecodeKey_Invalid(t *testing.T) {
	_, err := DecodeKey("zz")
	assert.Error(t, err)

	_, err = DecodeKey("abcd")
	assert.Error(t, err)
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		assert.Len(t, otp, 6)
		assert.NotEqual(t, byte('0'), otp[0])
	}
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", MaskKey(""))
	assert.Equal(t, "***", MaskKey("abc"))
	assert.Equal(t, "********wxyz", MaskKey("sk-abcdefwxyz"))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("test-secret-key", "42", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken("test-secret-key", token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.NotEmpty(t, claims.ID)

	_, err = ValidateToken("another-secret", token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateToken("test-secret-key", "42", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken("test-secret-key", token)
	assert.Error(t, err)
}
