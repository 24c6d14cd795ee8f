package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iov-one/testament/crypto"
	"github.com/iov-one/testament/store"
	"github.com/iov-one/testament/weavetest"
	"github.com/iov-one/testament/weavetest/assert"
	"github.com/iov-one/testament/x/router"
	"github.com/iov-one/testament/x/will"
)

func TestPrintAddresses(t *testing.T) {
	owner := weavetest.NewAddress()

	var buf bytes.Buffer
	assert.Nil(t, printAddresses(&buf, owner, crypto.TemplateForwardingWill, true, false, 3, 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 4, len(lines))
	assert.Equal(t, []string{"nonce", "will", "guard"}, strings.Fields(lines[0]))

	// The first will of an owner uses nonce zero and matches the router
	// prediction.
	ctrl := router.NewController(nil, nil, nil, nil)
	db := store.MemStore()
	want, err := ctrl.NextWillAddress(db, owner, will.Forwarding)
	assert.Nil(t, err)
	buf.Reset()
	assert.Nil(t, printAddresses(&buf, owner, crypto.TemplateForwardingWill, false, false, 1, 0))
	fields := strings.Fields(buf.String())
	assert.Equal(t, "0", fields[0])
	assert.Equal(t, want.String(), fields[1])
}

func TestPrintBech32Addresses(t *testing.T) {
	var buf bytes.Buffer
	assert.Nil(t, printAddresses(&buf, weavetest.NewAddress(), crypto.TemplateCustodyWill, false, true, 2, 0))
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		fields := strings.Fields(line)
		assert.Equal(t, 3, len(fields))
		if strings.HasPrefix(fields[1], "0x") || strings.HasPrefix(fields[2], "0x") {
			t.Fatalf("hex address printed: %q", line)
		}
	}
}
