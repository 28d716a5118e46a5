package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("MyPassword123")
	require.NoError(t, err)
	assert.Contains(t, hashed, "$")

	_, err = HashPassword("")
	assert.Error(t, err)

	again, err := HashPassword("MyPassword123")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again, "salt is random")
}

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPassword("TestPass456")
	require.NoError(t, err)

	assert.True(t, CheckPassword("TestPass456", hashed))
	assert.False(t, CheckPassword("WrongPass", hashed))
	assert.False(t, CheckPassword("", hashed))
	assert.False(t, CheckPassword("TestPass456", ""))
	assert.False(t, CheckPassword("TestPass456", "invalid-format"))
	assert.False(t, CheckPassword("TestPass456", "a$b$c"))
}

func TestCheckPassword_Bcrypt(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("counter-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPassword("counter-pass", string(hashed)))
	assert.False(t, CheckPassword("counter-pas", string(hashed)))
}

func TestEncryptDecryptAES(t *testing.T) {
	const key = "backup-key"
	for _, plaintext := range []string{
		"Hello World",
		"",
		`{"key_number":100,"name":"Twin Mattress"}`,
		strings.Repeat("A", 1000),
	} {
		encrypted, err := EncryptAES(key, []byte(plaintext))
		require.NoError(t, err)

		decrypted, err := DecryptAES(key, encrypted)
		require.NoError(t, err)
		assert.Equal(t, plaintext, string(decrypted))
	}
}

func TestDecryptAES_Failures(t *testing.T) {
	encrypted, err := EncryptAES("correct-key", []byte("ledger"))
	require.NoError(t, err)

	_, err = DecryptAES("wrong-key", encrypted)
	assert.Error(t, err)

	_, err = DecryptAES("correct-key", []byte{1, 2, 3})
	assert.Error(t, err)

	_, err = DecryptAES("correct-key", nil)
	assert.Error(t, err)
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("BenchPassword")
	}
}

func BenchmarkEncryptAES(b *testing.B) {
	data := []byte("Benchmark data")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = EncryptAES("bench-key", data)
	}
}
