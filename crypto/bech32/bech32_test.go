package bech32

import (
	"encoding/hex"
	"testing"

	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/weavetest/assert"
)

func TestDecodePrefixed(t *testing.T) {
	payload, err := hex.DecodeString("5b38da6a701c568545dcfcb03fcb875f56beddc4")
	assert.Nil(t, err)
	enc, err := Encode("will", payload)
	assert.Nil(t, err)
	other, err := Encode("guard", payload)
	assert.Nil(t, err)

	// flipping the last character breaks the checksum
	broken := []byte(string(enc))
	if broken[len(broken)-1] == 'q' {
		broken[len(broken)-1] = 'p'
	} else {
		broken[len(broken)-1] = 'q'
	}

	cases := map[string]struct {
		Raw     string
		WantErr *errors.Error
	}{
		"will prefix":     {Raw: string(enc)},
		"other prefix":    {Raw: string(other), WantErr: errors.ErrInput},
		"bad checksum":    {Raw: string(broken), WantErr: errors.ErrInput},
		"not bech32 text": {Raw: "0x5b38da6a", WantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := DecodePrefixed("will", tc.Raw)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.WantErr == nil {
				assert.Equal(t, payload, got)
			}
		})
	}
}
