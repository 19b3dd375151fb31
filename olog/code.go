package olog

import (
	"strings"

	"github.com/mr-tron/base58"
)

// profileCodeVersion prefixes every encoded payload.
const profileCodeVersion = 0x01

// EncodeProfile renders p as a compact copy/paste code:
//
//	<taxonomy>:z + base58btc(version, n, v1..vn, checksum)
//
// The checksum is the byte sum of everything before it.
func EncodeProfile(p Profile) string {
	buf := make([]byte, 0, len(p.values)+3)
	buf = append(buf, profileCodeVersion, byte(len(p.values)))
	for _, v := range p.values {
		buf = append(buf, byte(v))
	}
	buf = append(buf, checksum(buf))
	return p.taxonomy + ":z" + base58.Encode(buf)
}

// DecodeProfile parses a code produced by EncodeProfile for reg. Malformed
// codes, a taxonomy mismatch and out-of-range values fail with
// *ValidationError.
func DecodeProfile(reg *Registry, code string) (Profile, error) {
	invalid := func(reason string) error {
		return &ValidationError{Field: "profile_code", Reason: reason}
	}
	taxonomy, payload, ok := strings.Cut(strings.TrimSpace(code), ":z")
	if !ok {
		return Profile{}, invalid("missing taxonomy prefix")
	}
	if taxonomy != reg.def.Name {
		return Profile{}, invalid("code is for taxonomy " + taxonomy + ", not " + reg.def.Name)
	}
	buf, err := base58.Decode(payload)
	if err != nil {
		return Profile{}, invalid("payload is not base58")
	}
	n := len(reg.def.Dimensions)
	switch {
	case len(buf) != n+3:
		return Profile{}, invalid("payload has the wrong length")
	case buf[0] != profileCodeVersion:
		return Profile{}, invalid("unsupported code version")
	case int(buf[1]) != n:
		return Profile{}, invalid("dimension count mismatch")
	case checksum(buf[:n+2]) != buf[n+2]:
		return Profile{}, invalid("checksum mismatch")
	}
	values := make([]int, n)
	for i := range values {
		v := int(buf[2+i])
		if v > MaxValue {
			return Profile{}, outOfRange(string(reg.def.Dimensions[i]), v)
		}
		values[i] = v
	}
	return Profile{taxonomy: reg.def.Name, dims: reg.def.Dimensions, values: values}, nil
}

func checksum(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum += c
	}
	return sum
}
