//go:debug rsa1024min=0

package rsacrypt

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// genTestKey 生成测试私钥（仅测试用，线上只有加密一半）
func genTestKey(t *testing.T, bits int) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, bits)
	require.NoError(t, err)
	return key
}

func TestEncrypt_HexEncoding(t *testing.T) {
	key := genTestKey(t, 1024)
	enc := NewEncryptor(key.N)

	out := enc.Encrypt("test_account_01")
	require.NotEmpty(t, out)

	// 偶数位、小写、可解码
	assert.Equal(t, 0, len(out)%2)
	assert.Equal(t, strings.ToLower(out), out)
	_, err := hex.DecodeString(out)
	assert.NoError(t, err)

	// 密文整数必须小于模数
	c, ok := new(big.Int).SetString(out, 16)
	require.True(t, ok)
	assert.True(t, c.Cmp(key.N) < 0)
}

func TestEncrypt_RoundTrip(t *testing.T) {
	key := genTestKey(t, 1024)
	enc := NewEncryptor(key.N)

	plaintext := "p@ssw0rd-테스트"
	out := enc.Encrypt(plaintext)
	require.NotEmpty(t, out)

	// 用私钥指数还原填充块：m = c^d mod n
	c, ok := new(big.Int).SetString(out, 16)
	require.True(t, ok)
	m := new(big.Int).Exp(c, key.D, key.N)

	// big.Int 会吃掉前导 0x00，剩余应以 0x02 开头
	padded := m.Bytes()
	require.NotEmpty(t, padded)
	assert.Equal(t, byte(0x02), padded[0])

	// 0x00 分隔符之后就是原始明文
	sep := -1
	for i := 1; i < len(padded); i++ {
		if padded[i] == 0x00 {
			sep = i
			break
		}
	}
	require.Greater(t, sep, 0, "填充块缺少 0x00 分隔符")

	// 填充区不得包含零字节，且至少 8 字节
	assert.GreaterOrEqual(t, sep-1, 8)
	assert.Equal(t, plaintext, string(padded[sep+1:]))
}

func TestEncrypt_LengthBoundary(t *testing.T) {
	key := genTestKey(t, 512)
	enc := NewEncryptor(key.N)
	keyLen := enc.KeyLength()

	// len == keyLength-11 必须成功
	fits := strings.Repeat("a", keyLen-11)
	assert.NotEmpty(t, enc.Encrypt(fits))

	// len == keyLength-10 必须失败
	tooLong := strings.Repeat("a", keyLen-10)
	assert.Empty(t, enc.Encrypt(tooLong))
}

func TestEncrypt_EmptyInput(t *testing.T) {
	key := genTestKey(t, 512)
	enc := NewEncryptor(key.N)
	assert.Empty(t, enc.Encrypt(""))
}

func TestEncrypt_RandomizedPadding(t *testing.T) {
	key := genTestKey(t, 1024)
	enc := NewEncryptor(key.N)

	// 填充随机，两次加密结果应不同（服务端照样能解）
	a := enc.Encrypt("same-input")
	b := enc.Encrypt("same-input")
	require.NotEmpty(t, a)
	require.NotEmpty(t, b)
	assert.NotEqual(t, a, b)
}

func TestParseTag(t *testing.T) {
	n, ok := ParseTag("c0ffee")
	require.True(t, ok)
	assert.Equal(t, int64(0xc0ffee), n.Int64())

	_, ok = ParseTag("not-hex!")
	assert.False(t, ok)

	_, ok = ParseTag("")
	assert.False(t, ok)
}

func TestGenerateDummyPassword(t *testing.T) {
	pw := GenerateDummyPassword(60)
	assert.Len(t, pw, 60)
	for _, r := range pw {
		assert.Contains(t, dummyCharset, string(r))
	}

	// 非法长度回退到默认 60
	assert.Len(t, GenerateDummyPassword(0), 60)
}
