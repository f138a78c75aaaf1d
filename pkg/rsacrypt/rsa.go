package rsacrypt

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// ==================== RSA 挑战加密器 ====================

// Encryptor Baemin 登录用 RSA-PKCS#1 v1.5 加密器
// 服务端每次登录下发一个十六进制模数 (tag)，指数固定 65537。
// 注意：必须与站点 JS 实现的输出空间完全一致 —— 小写十六进制、
// 偶数位数、不带 0x 前缀。
type Encryptor struct {
	N *big.Int
	E int

	keyLength int // 密钥字节长度 = ceil(bitlen/8)
}

// DefaultExponent 站点 JS 固定使用的公钥指数
const DefaultExponent = 65537

// NewEncryptor 以模数创建加密器，指数取默认值
func NewEncryptor(n *big.Int) *Encryptor {
	return &Encryptor{
		N:         n,
		E:         DefaultExponent,
		keyLength: (n.BitLen() + 7) / 8,
	}
}

// ParseTag 解析登录初始化接口下发的十六进制 tag
func ParseTag(tag string) (*big.Int, bool) {
	n, ok := new(big.Int).SetString(tag, 16)
	if !ok || n.Sign() <= 0 {
		return nil, false
	}
	return n, true
}

// KeyLength 密钥字节长度
func (e *Encryptor) KeyLength() int {
	return e.keyLength
}

// Encrypt 加密明文并输出十六进制密文
// 失败（明文放不进填充块）时返回空串，调用方视为登录前置条件失败，不重试。
func (e *Encryptor) Encrypt(text string) string {
	if text == "" {
		return ""
	}

	data := []byte(text)
	padded := e.pkcs1Pad(data)
	if padded == nil {
		return ""
	}

	// m^E mod N
	m := new(big.Int).SetBytes(padded)
	c := new(big.Int).Exp(m, big.NewInt(int64(e.E)), e.N)

	// 小写十六进制，奇数位数时前补 0
	hexStr := c.Text(16)
	if len(hexStr)%2 != 0 {
		hexStr = "0" + hexStr
	}
	return hexStr
}

// pkcs1Pad PKCS#1 v1.5 填充
// 结构：0x00 0x02 [随机 non-zero 填充] 0x00 [数据]
// 填充区至少 8 字节，即 keyLength >= len(data)+11
func (e *Encryptor) pkcs1Pad(data []byte) []byte {
	if e.keyLength < len(data)+11 {
		return nil
	}

	padLen := e.keyLength - len(data) - 3
	padding := make([]byte, 0, padLen)

	// 拒绝零字节，逐个重采样
	buf := make([]byte, 1)
	for len(padding) < padLen {
		if _, err := rand.Read(buf); err != nil {
			return nil
		}
		if buf[0] != 0 {
			padding = append(padding, buf[0])
		}
	}

	block := make([]byte, 0, e.keyLength)
	block = append(block, 0x00, 0x02)
	block = append(block, padding...)
	block = append(block, 0x00)
	block = append(block, data...)
	return block
}

// ==================== 辅助函数 ====================

// dummyCharset 伪装密码字符集（数字 + 小写字母，与站点表单一致）
const dummyCharset = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateDummyPassword 生成登录表单里的伪装明文密码
// 真实密码只走 RSA 密文字段，明文字段放一段同构的随机串。
func GenerateDummyPassword(length int) string {
	if length <= 0 {
		length = 60
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand 不可用时退回固定串也不影响协议，只是熵差
		return strings.Repeat("0", length)
	}
	for i, v := range b {
		b[i] = dummyCharset[int(v)%len(dummyCharset)]
	}
	return string(b)
}
