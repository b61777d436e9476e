package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCartridge_TooSmall(t *testing.T) {
	_, err := NewCartridge(make([]byte, 100))
	assert.Error(t, err)
	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 100, loadErr.Size)
}

func TestNewCartridge_BanksSplit(t *testing.T) {
	data := make([]byte, minCartSize)
	data[0] = 0xAA
	data[bankSize] = 0xBB
	c, err := NewCartridge(data)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xAA), c.Bank0()[0])
	assert.Equal(t, uint8(0xBB), c.BankN()[0])
}

func TestExtractTitle(t *testing.T) {
	data := make([]byte, minCartSize)
	copy(data[titleAddress:], []byte("TETRIS"))
	c, err := NewCartridge(data)
	assert.NoError(t, err)
	assert.Equal(t, "TETRIS", c.Title())
}

func TestExtractTitle_EmptyWhenHeaderBlank(t *testing.T) {
	data := make([]byte, minCartSize)
	c, err := NewCartridge(data)
	assert.NoError(t, err)
	assert.Equal(t, "", c.Title())
}
