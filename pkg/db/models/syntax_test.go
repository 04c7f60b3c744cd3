package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTxID(t *testing.T) {
	assert.True(t, ValidTxID("0x5f2a9c0e1b7d4e3f8a6b2c1d0e9f8a7b6c5d4e3f2a1b0c9d8e7f6a5b4c3d2e1f"))
	assert.True(t, ValidTxID("tx1"))
	assert.False(t, ValidTxID(""))
	assert.False(t, ValidTxID("tx 1"))
	assert.False(t, ValidTxID("tx1;drop table"))
	assert.False(t, ValidTxID(strings.Repeat("a", MaxTxIDLength+1)))
}

func TestValidAddress(t *testing.T) {
	assert.True(t, ValidAddress("SP2C2YFP12AJZB4MABJBAJ55XECVS7E4PMMZ89YZR"))
	assert.True(t, ValidAddress("SP2C2YFP12AJZB4MABJBAJ55XECVS7E4PMMZ89YZR.usda-token"))
	assert.False(t, ValidAddress(""))
	assert.False(t, ValidAddress("ST1/../etc"))
	assert.False(t, ValidAddress("addr'--"))
}
