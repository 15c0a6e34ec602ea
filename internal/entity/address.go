package entity

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Zilliqa/gozilliqa-sdk/bech32"
	"golang.org/x/crypto/sha3"
)

var (
	ErrInvalidAddress = errors.New("invalid address")
)

// Address is a 20 byte account or collection address in lower-case 0x hex form.
type Address string

const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

const addressLength = 20

// ParseAddress accepts 0x prefixed hex or a zil1 bech32 address and returns the
// normalised hex form.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "zil1") {
		hexAddr, err := bech32.FromBech32Addr(s)
		if err != nil {
			return "", ErrInvalidAddress
		}
		s = hexAddr
	}

	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(s) != addressLength*2 {
		return "", ErrInvalidAddress
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", ErrInvalidAddress
	}

	return Address("0x" + s), nil
}

func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

func (a Address) String() string {
	return string(a)
}

func (a Address) IsZero() bool {
	return a == "" || a == ZeroAddress
}

// Valid reports whether the address is well formed and not the zero address.
func (a Address) Valid() bool {
	parsed, err := ParseAddress(string(a))
	return err == nil && parsed == a && !a.IsZero()
}

func (a Address) Bytes() []byte {
	b, err := hex.DecodeString(strings.TrimPrefix(string(a), "0x"))
	if err != nil {
		return nil
	}
	return b
}

func (a Address) Bech32() string {
	bech32Address, err := bech32.ToBech32Address(strings.TrimPrefix(string(a), "0x"))
	if err != nil {
		return ""
	}
	return bech32Address
}

// UnmarshalJSON normalises hex and bech32 input. An empty string decodes to the
// empty address.
func (a *Address) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidAddress
	}
	if s == "" {
		*a = ""
		return nil
	}

	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// DeriveAddress computes the address of the nonce-th object created by deployer,
// keccak256(deployer || nonce)[12:].
func DeriveAddress(deployer Address, nonce uint64) Address {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)

	h := sha3.NewLegacyKeccak256()
	h.Write(deployer.Bytes())
	h.Write(n[:])
	sum := h.Sum(nil)

	return Address("0x" + hex.EncodeToString(sum[len(sum)-addressLength:]))
}
