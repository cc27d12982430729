package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	key := hex.EncodeToString(make([]byte, 32))

	encoded, err := Encrypt(key, []byte(`{"user_id":"foo"}`))
	require.NoError(t, err)

	plaintext, err := Decrypt(key, encoded)
	require.NoError(t, err)
	require.Equal(t, `{"user_id":"foo"}`, string(plaintext))

	_, err = Decrypt(key, "not-a-ciphertext")
	require.Error(t, err)
}

func TestGenerateRandomDigits(t *testing.T) {
	code := GenerateRandomDigits(6)
	require.Len(t, code, 6)
	for _, c := range code {
		require.True(t, c >= '0' && c <= '9')
	}
}
