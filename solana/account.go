package solana

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

const discriminatorSize = 8

// Discriminator is the 8-byte prefix identifying an encoded account of
// the given type name.
func Discriminator(name string) [discriminatorSize]byte {
	hash := sha256.Sum256([]byte("account:" + name))
	var out [discriminatorSize]byte
	copy(out[:], hash[:discriminatorSize])
	return out
}

// EncodeAccount borsh-encodes v behind the discriminator of name.
func EncodeAccount(name string, v any) ([]byte, error) {
	disc := Discriminator(name)
	buf := bytes.NewBuffer(disc[:])
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// DecodeAccount checks the discriminator of name and borsh-decodes the
// remainder of data into v.
func DecodeAccount(name string, data []byte, v any) error {
	disc := Discriminator(name)
	if len(data) < discriminatorSize || !bytes.Equal(data[:discriminatorSize], disc[:]) {
		return fmt.Errorf("decode %s: discriminator mismatch", name)
	}
	if err := bin.NewBorshDecoder(data[discriminatorSize:]).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
