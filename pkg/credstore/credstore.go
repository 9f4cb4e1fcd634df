// Package credstore 提供按别名存取的本地加密凭证存储
// 凭证用 AES-256-GCM 封装落盘，密钥由配置密钥经 scrypt 派生
// 调用方只持有别名，明文凭证从不进入数据库
package credstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// Credential 一条共享服务器凭证
type Credential struct {
	User     string `json:"user"`
	Password string `json:"password"`
	Domain   string `json:"domain"`
}

// Store 文件后端凭证存储
type Store struct {
	dir string
	key []byte
}

var scryptSalt = []byte("media-share-backup-credstore")

// NewStore 创建凭证存储
// dir 为凭证目录，secret 为配置中的主密钥
func NewStore(dir string, secret string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(err, "create credential dir failed")
	}

	key, err := scrypt.Key([]byte(secret), scryptSalt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, errors.Wrap(err, "derive credential key failed")
	}

	return &Store{dir: dir, key: key}, nil
}

// fileName 别名转文件名，别名可能包含 uuid 以外的输入
func (s *Store) fileName(alias string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, alias)
	return filepath.Join(s.dir, cleaned+".cred")
}

func (s *Store) seal(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *Store) open(sealed []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("sealed credential too short")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// Save 保存别名对应的凭证，已存在则覆盖
func (s *Store) Save(alias string, cred *Credential) error {
	plaintext := []byte(strings.Join([]string{
		hex.EncodeToString([]byte(cred.User)),
		hex.EncodeToString([]byte(cred.Password)),
		hex.EncodeToString([]byte(cred.Domain)),
	}, ":"))

	sealed, err := s.seal(plaintext)
	if err != nil {
		return errors.Wrap(err, "seal credential failed")
	}

	if err := os.WriteFile(s.fileName(alias), sealed, 0600); err != nil {
		return errors.Wrap(err, "write credential failed")
	}
	return nil
}

// Load 读取别名对应的凭证
// 别名不存在时返回 (nil, nil)，调用方据此提示重新保存服务器
func (s *Store) Load(alias string) (*Credential, error) {
	sealed, err := os.ReadFile(s.fileName(alias))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read credential failed")
	}

	plaintext, err := s.open(sealed)
	if err != nil {
		return nil, errors.Wrap(err, "unseal credential failed")
	}

	parts := strings.Split(string(plaintext), ":")
	if len(parts) != 3 {
		return nil, errors.New("credential format invalid")
	}

	user, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, errors.Wrap(err, "credential format invalid")
	}
	password, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, errors.Wrap(err, "credential format invalid")
	}
	domain, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, errors.Wrap(err, "credential format invalid")
	}

	return &Credential{
		User:     string(user),
		Password: string(password),
		Domain:   string(domain),
	}, nil
}

// Delete 删除别名对应的凭证，不存在时不报错
func (s *Store) Delete(alias string) error {
	err := os.Remove(s.fileName(alias))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete credential failed")
	}
	return nil
}
