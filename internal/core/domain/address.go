package domain

import (
	"encoding/hex"
	"strings"
)

// AddressLength is the number of bytes of an Address.
const AddressLength = 20

// Address is the opaque identifier shared by accounts (sellers, buyers, the
// marketplace itself) and asset collections.
type Address [AddressLength]byte

// ParseAddress parses a hex encoded address, with or without 0x prefix.
func ParseAddress(str string) (Address, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(str, "0x"), "0X")
	if len(s) != AddressLength*2 {
		return Address{}, ErrInvalidAddress
	}
	buf, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, ErrInvalidAddress
	}

	var addr Address
	copy(addr[:], buf)
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics in case of failure.
func MustParseAddress(str string) Address {
	addr, err := ParseAddress(str)
	if err != nil {
		panic(err)
	}
	return addr
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	addr, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
